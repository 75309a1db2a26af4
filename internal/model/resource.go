package model

type ResourceCategoryCard struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	ResourceCount int    `json:"resourceCount"`
}

type ResourceCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type ResourcePayload struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
}

type CategoryResources struct {
	Category  ResourceCategory  `json:"category"`
	Resources []ResourcePayload `json:"resources"`
}
