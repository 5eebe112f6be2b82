package dashboard

type CategorySummary struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	InUse        int64  `json:"assets_in_use_count"`
	InStock      int64  `json:"assets_in_store_count"`
	InRepair     int64  `json:"assets_in_repair_count"`
	Total        int64  `json:"total_assets_count"`
}

type Summary struct {
	Categories  []CategorySummary `json:"categories"`
	TotalAssets int64             `json:"total_assets"`
	Unassigned  int64             `json:"unassigned_assets"`
	OpenAudits  int64             `json:"open_audits"`
}
