package client

// ProductFile is a generated product as written by the content generator
type ProductFile struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	ImageFile   string   `json:"image_file"`
	Price       float64  `json:"price,omitempty"` // Ignored by the server, which prices from tags
}

// PublishResult is the body of a successful POST /publish
type PublishResult struct {
	Success     bool    `json:"success"`
	ProductID   string  `json:"product_id"`
	Message     string  `json:"message"`
	PublishedAt string  `json:"published_at"`
	ProductURL  string  `json:"product_url"`
	AdminURL    string  `json:"admin_url"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

// Stats is the body of GET /stats
type Stats struct {
	TotalProducts int    `json:"total_products"`
	ServerUptime  string `json:"server_uptime"`
	LastCheck     string `json:"last_check"`
	Status        string `json:"status"`
}

// errorResponse is the body of any failed request
type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}
