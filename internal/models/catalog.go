package models

// Tag is administrator-managed reference data used to classify recipes.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Color string `gorm:"size:7;uniqueIndex;not null" json:"color"`
	Slug  string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

// Ingredient is bulk-loaded reference data.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;index;uniqueIndex:idx_ingredients_name_unit;not null" json:"name"`
	MeasurementUnit string `gorm:"size:200;uniqueIndex:idx_ingredients_name_unit;not null" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
