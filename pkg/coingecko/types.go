package coingecko

// MarketCoin is one entry of the /coins/markets listing. Field names follow
// the upstream payload and are re-emitted unchanged by the API.
type MarketCoin struct {
	ID                       string     `json:"id"`
	Symbol                   string     `json:"symbol"`
	Name                     string     `json:"name"`
	Image                    string     `json:"image"`
	CurrentPrice             float64    `json:"current_price"`
	MarketCap                float64    `json:"market_cap"`
	MarketCapRank            int        `json:"market_cap_rank"`
	TotalVolume              float64    `json:"total_volume"`
	High24h                  *float64   `json:"high_24h"`
	Low24h                   *float64   `json:"low_24h"`
	PriceChange24h           float64    `json:"price_change_24h"`
	PriceChangePercentage24h float64    `json:"price_change_percentage_24h"`
	CirculatingSupply        float64    `json:"circulating_supply"`
	TotalSupply              *float64   `json:"total_supply"`
	MaxSupply                *float64   `json:"max_supply"`
	ATH                      float64    `json:"ath"`
	ATHChangePercentage      float64    `json:"ath_change_percentage"`
	ATL                      float64    `json:"atl"`
	ATLChangePercentage      float64    `json:"atl_change_percentage"`
	LastUpdated              string     `json:"last_updated"`
	Sparkline7d              *Sparkline `json:"sparkline_in_7d,omitempty"`

	PriceChangePercentage1hInCurrency  *float64 `json:"price_change_percentage_1h_in_currency,omitempty"`
	PriceChangePercentage24hInCurrency *float64 `json:"price_change_percentage_24h_in_currency,omitempty"`
	PriceChangePercentage7dInCurrency  *float64 `json:"price_change_percentage_7d_in_currency,omitempty"`
	PriceChangePercentage30dInCurrency *float64 `json:"price_change_percentage_30d_in_currency,omitempty"`
	PriceChangePercentage1yInCurrency  *float64 `json:"price_change_percentage_1y_in_currency,omitempty"`
}

// Sparkline holds the embedded 7 day price history, oldest first.
type Sparkline struct {
	Price []float64 `json:"price"`
}

// CoinDetails is the subset of /coins/{id} used for scoring. A nil section
// means the upstream did not return it.
type CoinDetails struct {
	ID            string            `json:"id"`
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	MarketData    *DetailMarketData `json:"market_data,omitempty"`
	DeveloperData *DeveloperData    `json:"developer_data,omitempty"`
	CommunityData *CommunityData    `json:"community_data,omitempty"`
	Image         map[string]string `json:"image,omitempty"`
}

// DetailMarketData carries the multi-window percentage changes.
type DetailMarketData struct {
	PriceChangePercentage7d   *float64 `json:"price_change_percentage_7d"`
	PriceChangePercentage30d  *float64 `json:"price_change_percentage_30d"`
	PriceChangePercentage200d *float64 `json:"price_change_percentage_200d"`
	PriceChangePercentage1y   *float64 `json:"price_change_percentage_1y"`
}

type DeveloperData struct {
	Forks              float64 `json:"forks"`
	Stars              float64 `json:"stars"`
	Subscribers        float64 `json:"subscribers"`
	TotalIssues        float64 `json:"total_issues"`
	ClosedIssues       float64 `json:"closed_issues"`
	PullRequestsMerged float64 `json:"pull_requests_merged"`
	CommitCount4Weeks  float64 `json:"commit_count_4_weeks"`
}

type CommunityData struct {
	TwitterFollowers  float64 `json:"twitter_followers"`
	RedditSubscribers float64 `json:"reddit_subscribers"`
}

// MarketChart is the /coins/{id}/market_chart payload: three parallel
// series of [timestamp_ms, value] pairs.
type MarketChart struct {
	Prices       [][]float64 `json:"prices"`
	MarketCaps   [][]float64 `json:"market_caps"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

// GlobalResponse wraps the /global payload.
type GlobalResponse struct {
	Data GlobalData `json:"data"`
}

type GlobalData struct {
	ActiveCryptocurrencies          int                `json:"active_cryptocurrencies"`
	Markets                         int                `json:"markets"`
	TotalMarketCap                  map[string]float64 `json:"total_market_cap"`
	TotalVolume                     map[string]float64 `json:"total_volume"`
	MarketCapPercentage             map[string]float64 `json:"market_cap_percentage"`
	MarketCapChangePercentage24hUSD float64            `json:"market_cap_change_percentage_24h_usd"`
	UpdatedAt                       int64              `json:"updated_at"`
}

// TrendingResponse wraps the /search/trending payload.
type TrendingResponse struct {
	Coins []TrendingCoin `json:"coins"`
}

type TrendingCoin struct {
	Item TrendingItem `json:"item"`
}

type TrendingItem struct {
	ID            string  `json:"id"`
	CoinID        int     `json:"coin_id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank int     `json:"market_cap_rank"`
	Thumb         string  `json:"thumb"`
	Score         float64 `json:"score"`
	PriceBTC      float64 `json:"price_btc"`
}
