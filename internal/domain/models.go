package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID when the database does not generate one (sqlite).
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Category is one of the three fixed line item collections of a budget
type Category string

const (
	CategoryMaterials  Category = "materials"
	CategoryMachines   Category = "machines"
	CategoryProduction Category = "production"
)

// Categories lists every category in display order
var Categories = []Category{CategoryMaterials, CategoryMachines, CategoryProduction}

// IsValid checks if the Category is a valid enum value
func (c Category) IsValid() bool {
	switch c {
	case CategoryMaterials, CategoryMachines, CategoryProduction:
		return true
	}
	return false
}

// Table returns the item table backing the category
func (c Category) Table() string {
	return string(c)
}

// ParseCategory validates a category path segment
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// LineItem is one priced entry of a category.
// ID is opaque: a numeric counter in memory, a UUID in the database.
type LineItem struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;index" json:"projectId,omitempty"`
	Item         string    `gorm:"type:varchar(255);not null;default:''" json:"item"`
	Label        string    `gorm:"type:varchar(100);not null;default:''" json:"label"`
	Description  string    `gorm:"type:text;not null;default:''" json:"description"`
	Supplier     string    `gorm:"type:varchar(200);not null;default:''" json:"supplier"`
	UnitPrice    float64   `gorm:"type:decimal(15,4);not null;default:0" json:"unitPrice"`
	Quantity     float64   `gorm:"type:decimal(15,4);not null;default:0" json:"quantity"`
	Freight      float64   `gorm:"type:decimal(15,4);not null;default:0" json:"freight"`
	TaxPercent   float64   `gorm:"type:decimal(7,4);not null;default:0" json:"taxPercent"`
	Usage        string    `gorm:"type:varchar(200);not null;default:''" json:"usage"`
	CostPerPiece float64   `gorm:"type:decimal(15,4);not null;default:0" json:"costPerPiece"`
	Notes        string    `gorm:"type:text;not null;default:''" json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID for database-backed items
func (i *LineItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// BudgetConfig holds the per-project scalar settings used by the cost engine.
// ProfitMarginPercent is stored and editable but no pricing formula reads it.
type BudgetConfig struct {
	DefaultTaxPercent   float64 `gorm:"type:decimal(7,4);not null" json:"defaultTaxPercent"`
	ProfitMarginPercent float64 `gorm:"type:decimal(7,4);not null" json:"profitMarginPercent"`
	AverageFreight      float64 `gorm:"type:decimal(15,4);not null" json:"averageFreight"`
	OperationalCost     float64 `gorm:"type:decimal(15,4);not null" json:"operationalCost"`
	InternalLabor       float64 `gorm:"type:decimal(15,4);not null" json:"internalLabor"`
	MonthlyVolume       float64 `gorm:"type:decimal(15,4);not null" json:"monthlyVolume"`
}

// Default configuration values for new budgets
const (
	DefaultTaxPercent          = 12
	DefaultProfitMarginPercent = 200
	DefaultAverageFreight      = 35
	DefaultOperationalCost     = 2500
	DefaultInternalLabor       = 3500
	DefaultMonthlyVolume       = 100
)

// DefaultBudgetConfig returns the configuration new projects start with
func DefaultBudgetConfig() BudgetConfig {
	return BudgetConfig{
		DefaultTaxPercent:   DefaultTaxPercent,
		ProfitMarginPercent: DefaultProfitMarginPercent,
		AverageFreight:      DefaultAverageFreight,
		OperationalCost:     DefaultOperationalCost,
		InternalLabor:       DefaultInternalLabor,
		MonthlyVolume:       DefaultMonthlyVolume,
	}
}

// Validate checks the config can drive the per-piece calculations
func (c BudgetConfig) Validate() error {
	if c.MonthlyVolume <= 0 {
		return ErrInvalidVolume
	}
	return nil
}

// ConfigPatch is a partial update of a BudgetConfig; nil fields are left unchanged
type ConfigPatch struct {
	DefaultTaxPercent   *float64 `json:"defaultTaxPercent,omitempty"`
	ProfitMarginPercent *float64 `json:"profitMarginPercent,omitempty"`
	AverageFreight      *float64 `json:"averageFreight,omitempty"`
	OperationalCost     *float64 `json:"operationalCost,omitempty"`
	InternalLabor       *float64 `json:"internalLabor,omitempty"`
	MonthlyVolume       *float64 `json:"monthlyVolume,omitempty"`
}

// Apply returns cfg with every non-nil patch field applied
func (p ConfigPatch) Apply(cfg BudgetConfig) BudgetConfig {
	if p.DefaultTaxPercent != nil {
		cfg.DefaultTaxPercent = *p.DefaultTaxPercent
	}
	if p.ProfitMarginPercent != nil {
		cfg.ProfitMarginPercent = *p.ProfitMarginPercent
	}
	if p.AverageFreight != nil {
		cfg.AverageFreight = *p.AverageFreight
	}
	if p.OperationalCost != nil {
		cfg.OperationalCost = *p.OperationalCost
	}
	if p.InternalLabor != nil {
		cfg.InternalLabor = *p.InternalLabor
	}
	if p.MonthlyVolume != nil {
		cfg.MonthlyVolume = *p.MonthlyVolume
	}
	return cfg
}

// Columns maps the non-nil patch fields to project table columns
func (p ConfigPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.DefaultTaxPercent != nil {
		cols["default_tax_percent"] = *p.DefaultTaxPercent
	}
	if p.ProfitMarginPercent != nil {
		cols["profit_margin_percent"] = *p.ProfitMarginPercent
	}
	if p.AverageFreight != nil {
		cols["average_freight"] = *p.AverageFreight
	}
	if p.OperationalCost != nil {
		cols["operational_cost"] = *p.OperationalCost
	}
	if p.InternalLabor != nil {
		cols["internal_labor"] = *p.InternalLabor
	}
	if p.MonthlyVolume != nil {
		cols["monthly_volume"] = *p.MonthlyVolume
	}
	return cols
}

// Default project names
const (
	DefaultProjectName     = "Orçamento Principal"
	ReplacementProjectName = "Novo Orçamento"
)

// Project groups one budget configuration with three item categories for a user
type Project struct {
	BaseModel
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	Name        string       `gorm:"type:varchar(200);not null"`
	Description string       `gorm:"type:text"`
	Config      BudgetConfig `gorm:"embedded"`
}

// TableName overrides the default table name
func (Project) TableName() string {
	return "budget_projects"
}

// User is the local profile of an identity issued by the auth provider
type User struct {
	ID          string    `gorm:"type:varchar(100);primaryKey" json:"id"`
	Email       string    `gorm:"type:varchar(255);not null;index" json:"email"`
	DisplayName string    `gorm:"type:varchar(200)" json:"displayName"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RevokedToken records a signed-out session token until it would have expired anyway
type RevokedToken struct {
	TokenHash string    `gorm:"type:varchar(64);primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// NotificationVariant is the presentation variant of a notice
type NotificationVariant string

const (
	NotificationSuccess NotificationVariant = "success"
	NotificationError   NotificationVariant = "error"
)

// IsValid checks if the NotificationVariant is a valid enum value
func (v NotificationVariant) IsValid() bool {
	return v == NotificationSuccess || v == NotificationError
}

// Notification is a transient notice shown to a user after an operation
type Notification struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Variant    string     `gorm:"type:varchar(20);not null"`
	Title      string     `gorm:"type:varchar(200);not null"`
	Message    string     `gorm:"type:varchar(500);not null"`
	Read       bool       `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	EntityType string     `gorm:"type:varchar(50)"`
}

// ExportFormat is the file format of a budget export
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// IsValid checks if the ExportFormat is a valid enum value
func (f ExportFormat) IsValid() bool {
	return f == ExportFormatCSV || f == ExportFormatXLSX
}

// ContentType returns the MIME type of the format
func (f ExportFormat) ContentType() string {
	if f == ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ExportFile is an archived export stored in blob storage
type ExportFile struct {
	BaseModel
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Format      string     `gorm:"type:varchar(10);not null"`
	Filename    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null"`
	Size        int64      `gorm:"not null"`
	StoragePath string     `gorm:"type:varchar(500);not null"`
	CreatedByID *uuid.UUID `gorm:"type:uuid"`
}
