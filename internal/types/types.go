package types

import (
	"cryptohealth-api/pkg/market"
	"cryptohealth-api/pkg/market/analysis"
	"cryptohealth-api/pkg/metrics"
)

type CoinsRequest struct {
	IDs            string `form:"ids,optional"`
	VsCurrency     string `form:"vs_currency,optional"`
	IncludeDetails string `form:"include_details,optional"`
}

type HistoryRequest struct {
	ID         string `path:"id,optional"`
	Timeframe  string `form:"timeframe,optional"`
	VsCurrency string `form:"vs_currency,optional"`
}

type AnalysisRequest struct {
	ID         string `path:"id,optional"`
	Timeframe  string `form:"timeframe,optional"`
	VsCurrency string `form:"vs_currency,optional"`
}

type OverviewRequest struct {
	VsCurrency string `form:"vs_currency,optional"`
}

type CoinMetrics = market.CoinMetrics

type HistoricalPoint = market.HistoricalPoint

type MarketOverview = market.Overview

type AnalysisResponse struct {
	ID         string                     `json:"id"`
	VsCurrency string                     `json:"vsCurrency"`
	Metrics    *metrics.CalculatedMetrics `json:"metrics"`
	Analysis   *analysis.Result           `json:"analysis"`
}

type HealthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}
