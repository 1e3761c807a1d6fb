package model

// Path is a row of reg_path. Collection paths get a stable integer id that
// the rest of the schema joins on.
type Path struct {
	ID       int64  `gorm:"column:reg_path_id;primaryKey;autoIncrement"`
	Value    string `gorm:"column:reg_path_value;type:varchar(895);not null;index"`
	ParentID *int64 `gorm:"column:reg_path_parent_id"`
	TenantID int64  `gorm:"column:reg_tenant_id;not null"`
}

func (Path) TableName() string {
	return "reg_path"
}
