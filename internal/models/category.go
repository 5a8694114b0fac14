package models

// Category is the reference set products belong to.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null;uniqueIndex"`
}

// CategoryOption is a select-list entry for the product forms.
type CategoryOption struct {
	Value uint   `json:"value"`
	Text  string `json:"text"`
}
