package model

// Group 活动分组（如一门课程），对应表 event_groups
type Group struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Description string  `gorm:"type:text;not null"         json:"description"`
	Events      []Event `gorm:"foreignKey:GroupID"         json:"events,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Group) TableName() string { return "event_groups" }
