package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the database cannot (sqlite in tests).
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Customer represents a household or business the company performs work for
type Customer struct {
	BaseModel
	Name       string      `gorm:"type:varchar(200);not null;index" json:"name"`
	Email      string      `gorm:"type:varchar(255);index" json:"email"`
	Phone      string      `gorm:"type:varchar(50)" json:"phone"`
	Address    string      `gorm:"type:varchar(500)" json:"address"`
	City       string      `gorm:"type:varchar(100)" json:"city"`
	PostalCode string      `gorm:"type:varchar(20);column:postal_code" json:"postalCode"`
	WorkOrders []WorkOrder `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

// LastName returns everything after the first space-separated token of the
// customer's name, or "" for single-token names.
func (c *Customer) LastName() string {
	parts := strings.SplitN(strings.TrimSpace(c.Name), " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// WorkOrderStatus represents the lifecycle state of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusOpen       WorkOrderStatus = "open"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusIncomplete WorkOrderStatus = "incomplete"
)

// IsValid checks if the WorkOrderStatus is a valid enum value
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusOpen, WorkOrderStatusCompleted, WorkOrderStatusIncomplete:
		return true
	}
	return false
}

// Material is a value object serialized into the work order's materials blob.
// Materials have no row identity: duplicate names and ids may coexist.
type Material struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
}

// NewMaterial builds a material, clamping price to >= 0.01 and quantity to >= 1.
func NewMaterial(name string, price float64, quantity int) Material {
	m := Material{ID: uuid.New(), Name: name, Price: price, Quantity: quantity}
	m.Clamp()
	return m
}

// Clamp enforces the material value bounds in place.
func (m *Material) Clamp() {
	if m.Price < 0.01 {
		m.Price = 0.01
	}
	if m.Quantity < 1 {
		m.Quantity = 1
	}
}

// WorkOrder represents a scheduled service job tied to a customer
type WorkOrder struct {
	BaseModel
	WorkOrderNumber int             `gorm:"not null;index;column:work_order_number" json:"workOrderNumber"`
	Category        string          `gorm:"type:varchar(100);index" json:"category"`
	Description     string          `gorm:"type:text" json:"description"`
	Status          WorkOrderStatus `gorm:"type:varchar(50);not null;default:'open';index" json:"status"`
	ScheduledAt     *time.Time      `gorm:"column:scheduled_at;index" json:"scheduledAt,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes"`
	IsCallback      bool            `gorm:"not null;default:false;column:is_callback" json:"isCallback"`
	// Photos holds storage paths of uploaded job photos as a JSON array.
	Photos datatypes.JSON `gorm:"type:jsonb" json:"photos,omitempty"`
	// Materials is a JSON-encoded array of Material value objects. Kept as a
	// blob rather than a child table: no independent identity, no relational
	// integrity, duplicates allowed.
	Materials  []Material  `gorm:"serializer:json;type:jsonb" json:"materials"`
	CustomerID uuid.UUID   `gorm:"type:uuid;not null;index;column:customer_id" json:"customerId"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Tradesmen  []Tradesman `gorm:"many2many:work_order_tradesmen" json:"tradesmen,omitempty"`
	Tasks      []Task      `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Invoice    *Invoice    `gorm:"foreignKey:WorkOrderID" json:"invoice,omitempty"`
}

// HasPhoto reports whether the given storage path is attached to this work
// order.
func (w *WorkOrder) HasPhoto(path string) bool {
	if len(w.Photos) == 0 {
		return false
	}
	var photos []string
	if err := json.Unmarshal(w.Photos, &photos); err != nil {
		return false
	}
	for _, p := range photos {
		if p == path {
			return true
		}
	}
	return false
}

// MaterialsTotal returns the material cost sum.
func (w *WorkOrder) MaterialsTotal() float64 {
	total := 0.0
	for _, m := range w.Materials {
		total += m.Price * float64(m.Quantity)
	}
	return total
}

// Task represents a checklist step inside a work order
type Task struct {
	BaseModel
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsComplete  bool      `gorm:"not null;default:false;column:is_complete" json:"isComplete"`
	WorkOrderID uuid.UUID `gorm:"type:uuid;not null;index;column:work_order_id" json:"workOrderId"`
}

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusUnpaid InvoiceStatus = "unpaid"
)

// IsValid checks if the InvoiceStatus is a valid enum value
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusUnpaid
}

// ServiceItem is a billable line serialized into the invoice's services blob
type ServiceItem struct {
	Description string  `json:"description"`
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
}

// Invoice represents a billable summary generated from a work order
type Invoice struct {
	BaseModel
	InvoiceNumber int        `gorm:"not null;index;column:invoice_number" json:"invoiceNumber"`
	IssueDate     time.Time  `gorm:"not null;column:issue_date" json:"issueDate"`
	DueDate       *time.Time `gorm:"column:due_date" json:"dueDate,omitempty"`
	// Services is a JSON-encoded array of ServiceItem value objects.
	Services      []ServiceItem `gorm:"serializer:json;type:jsonb" json:"services"`
	TaxPercentage float64       `gorm:"not null;default:0;column:tax_percentage" json:"taxPercentage"`
	// TotalAmount is a cache of ComputedTotal, rewritten whenever services or
	// the work order's materials change. ComputedTotal stays authoritative on
	// read paths.
	TotalAmount   float64       `gorm:"not null;default:0;column:total_amount" json:"totalAmount"`
	Status        InvoiceStatus `gorm:"type:varchar(50);not null;default:'unpaid';index" json:"status"`
	PaymentMethod string        `gorm:"type:varchar(100);column:payment_method" json:"paymentMethod"`
	WorkOrderID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex;column:work_order_id" json:"workOrderId"`
	WorkOrder     *WorkOrder    `gorm:"foreignKey:WorkOrderID" json:"workOrder,omitempty"`
}

// ServicesSubtotal returns the service line sum before tax.
func (i *Invoice) ServicesSubtotal() float64 {
	total := 0.0
	for _, s := range i.Services {
		total += s.UnitPrice * float64(s.Quantity)
	}
	return total
}

// ComputedTotal is the authoritative invoice total:
// (sum of service lines + sum of work order materials) * (1 + tax/100).
// materialsTotal is passed in because materials live on the work order.
func (i *Invoice) ComputedTotal(materialsTotal float64) float64 {
	return (i.ServicesSubtotal() + materialsTotal) * (1 + i.TaxPercentage/100)
}

// InventoryItem represents stock, either in the warehouse (TradesmanID nil)
// or assigned to a tradesman. Assignment creates a second independent row
// rather than an allocation ledger.
type InventoryItem struct {
	BaseModel
	Name          string           `gorm:"type:varchar(200);not null;index" json:"name"`
	Price         float64          `gorm:"not null;default:0" json:"price"`
	Quantity      int16            `gorm:"not null;default:0" json:"quantity"`
	Category      string           `gorm:"type:varchar(100);index" json:"category"`
	TradesmanID   *uuid.UUID       `gorm:"type:uuid;index;column:tradesman_id" json:"tradesmanId,omitempty"`
	Tradesman     *Tradesman       `gorm:"foreignKey:TradesmanID" json:"tradesman,omitempty"`
	LowThreshold  int16            `gorm:"not null;default:0;column:low_threshold" json:"lowThreshold"`
	HighThreshold int16            `gorm:"not null;default:0;column:high_threshold" json:"highThreshold"`
	UsageHistory  []InventoryUsage `gorm:"foreignKey:InventoryItemID;constraint:OnDelete:CASCADE" json:"usageHistory,omitempty"`
}

// IsLowStock reports whether the quantity is at or below the low threshold.
func (i *InventoryItem) IsLowStock() bool {
	return i.LowThreshold > 0 && i.Quantity <= i.LowThreshold
}

// InventoryUsage is a usage-history child record for an inventory item
type InventoryUsage struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;not null;index;column:inventory_item_id" json:"inventoryItemId"`
	UsedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:used_at" json:"usedAt"`
	QuantityUsed    int16     `gorm:"not null;column:quantity_used" json:"quantityUsed"`
}

// BeforeCreate assigns a UUID when the database cannot.
func (u *InventoryUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Tradesman represents a service worker assignable to work orders,
// tracked for gamified performance
type Tradesman struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null;index" json:"name"`
	JobTitle string `gorm:"type:varchar(100);column:job_title" json:"jobTitle"`
	Phone    string `gorm:"type:varchar(50)" json:"phone"`
	Address  string `gorm:"type:varchar(500)" json:"address"`
	Email    string `gorm:"type:varchar(255);index" json:"email"`
	Points   int32  `gorm:"not null;default:0" json:"points"`
	// Badges is an insert-if-absent string set.
	Badges              []string    `gorm:"serializer:json;type:jsonb" json:"badges"`
	JobsCompleted       int32       `gorm:"not null;default:0;column:jobs_completed" json:"jobsCompleted"`
	JobCompletionStreak int32       `gorm:"not null;default:0;column:job_completion_streak" json:"jobCompletionStreak"`
	WorkOrders          []WorkOrder `gorm:"many2many:work_order_tradesmen" json:"-"`
}

// HasBadge reports whether the tradesman already holds the named badge.
func (t *Tradesman) HasBadge(name string) bool {
	for _, b := range t.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// AddBadge inserts a badge if absent and reports whether it was added.
func (t *Tradesman) AddBadge(name string) bool {
	if t.HasBadge(name) {
		return false
	}
	t.Badges = append(t.Badges, name)
	return true
}

// CreditEvent records a gamification credit so a completion is awarded at
// most once per work order and tradesman, no matter how often the status is
// toggled.
type CreditEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WorkOrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_credit_once;column:work_order_id" json:"workOrderId"`
	TradesmanID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_credit_once;column:tradesman_id" json:"tradesmanId"`
	Points      int32     `gorm:"not null" json:"points"`
	CreditedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:credited_at" json:"creditedAt"`
}

// BeforeCreate assigns a UUID when the database cannot.
func (c *CreditEvent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Conversation is a lightweight chat thread keyed by a participant
// description string
type Conversation struct {
	BaseModel
	Participants string    `gorm:"type:varchar(500);not null;index" json:"participants"`
	Messages     []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// Message belongs to a conversation and is ordered by timestamp
type Message struct {
	BaseModel
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index;column:conversation_id" json:"conversationId"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null;column:sender_id" json:"senderId"`
	SenderName     string    `gorm:"type:varchar(200);column:sender_name" json:"senderName"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	SentAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:sent_at" json:"sentAt"`
}

// DeletedEntityType identifies what kind of entity a recycle-bin record holds
type DeletedEntityType string

const (
	DeletedEntityWorkOrder DeletedEntityType = "work_order"
	DeletedEntityInvoice   DeletedEntityType = "invoice"
	DeletedEntityCustomer  DeletedEntityType = "customer"
)

// DeletedItem is an undo record written at deletion time. Restoring from it
// reconstructs a new entity with a new identity, re-linked to customers and
// tradesmen by name match.
type DeletedItem struct {
	BaseModel
	EntityType    DeletedEntityType `gorm:"type:varchar(50);not null;index;column:entity_type" json:"entityType"`
	DisplayNumber int               `gorm:"column:display_number" json:"displayNumber"`
	Label         string            `gorm:"type:varchar(200)" json:"label"`
	Snapshot      datatypes.JSON    `gorm:"type:jsonb;not null" json:"snapshot"`
	DeletedBy     string            `gorm:"type:varchar(200);column:deleted_by" json:"deletedBy"`
}

// WorkOrderSnapshot is the denormalized snapshot stored for a deleted work order
type WorkOrderSnapshot struct {
	WorkOrderNumber int             `json:"workOrderNumber"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Status          WorkOrderStatus `json:"status"`
	ScheduledAt     *time.Time      `json:"scheduledAt,omitempty"`
	Notes           string          `json:"notes"`
	IsCallback      bool            `json:"isCallback"`
	Materials       []Material      `json:"materials"`
	CustomerName    string          `json:"customerName"`
	TradesmenNames  []string        `json:"tradesmenNames"`
}

// InvoiceSnapshot is the denormalized snapshot stored for a deleted invoice.
// WorkOrderNumber is kept for the restore-time relink.
type InvoiceSnapshot struct {
	InvoiceNumber   int           `json:"invoiceNumber"`
	IssueDate       time.Time     `json:"issueDate"`
	DueDate         *time.Time    `json:"dueDate,omitempty"`
	Services        []ServiceItem `json:"services"`
	TaxPercentage   float64       `json:"taxPercentage"`
	Status          InvoiceStatus `json:"status"`
	PaymentMethod   string        `json:"paymentMethod"`
	WorkOrderNumber int           `json:"workOrderNumber"`
}

// CustomerSnapshot is the denormalized snapshot stored for a deleted customer
type CustomerSnapshot struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// UserRoleType represents a role a user can have
type UserRoleType string

const (
	RoleAdmin      UserRoleType = "admin"
	RoleTechnician UserRoleType = "technician"
)

// IsValid checks if the UserRoleType is a valid enum value
func (r UserRoleType) IsValid() bool {
	return r == RoleAdmin || r == RoleTechnician
}

// SubscriptionPlan represents the account's billing plan
type SubscriptionPlan string

const (
	PlanFree SubscriptionPlan = "free"
	PlanPro  SubscriptionPlan = "pro"
)

// User represents an account in the system. Admins own a company code that
// technicians use to self-associate.
type User struct {
	BaseModel
	Email        string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string       `gorm:"type:varchar(200);not null;column:password_hash" json:"-"`
	DisplayName  string       `gorm:"type:varchar(200);not null;column:display_name" json:"displayName"`
	Role         UserRoleType `gorm:"type:varchar(50);not null;default:'technician';index" json:"role"`
	// CompanyCode is set for admins; technicians submit it once to link.
	CompanyCode      string           `gorm:"type:varchar(50);index;column:company_code" json:"companyCode,omitempty"`
	AdminID          *uuid.UUID       `gorm:"type:uuid;index;column:admin_id" json:"adminId,omitempty"`
	NotifyOnLowStock bool             `gorm:"not null;default:true;column:notify_on_low_stock" json:"notifyOnLowStock"`
	NotifyOnMessages bool             `gorm:"not null;default:true;column:notify_on_messages" json:"notifyOnMessages"`
	NotifyOnSchedule bool             `gorm:"not null;default:true;column:notify_on_schedule" json:"notifyOnSchedule"`
	SubscriptionPlan SubscriptionPlan `gorm:"type:varchar(50);not null;default:'free';column:subscription_plan" json:"subscriptionPlan"`
	PaymentLink      string           `gorm:"type:varchar(500);column:payment_link" json:"paymentLink,omitempty"`
	LastLoginAt      *time.Time       `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	IsActive         bool             `gorm:"not null;default:true;column:is_active" json:"isActive"`
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeLowStock     NotificationType = "low_stock"
	NotificationTypeNewMessage   NotificationType = "new_message"
	NotificationTypeJobScheduled NotificationType = "job_scheduled"
	NotificationTypeBadgeEarned  NotificationType = "badge_earned"
)

// Notification represents a user notification
type Notification struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	Type       string     `gorm:"type:varchar(50);not null" json:"type"`
	Title      string     `gorm:"type:varchar(200);not null" json:"title"`
	Message    string     `gorm:"type:varchar(500);not null" json:"message"`
	Read       bool       `gorm:"column:read;not null;default:false;index" json:"read"`
	ReadAt     *time.Time `gorm:"column:read_at" json:"readAt,omitempty"`
	EntityID   *uuid.UUID `gorm:"type:uuid;column:entity_id" json:"entityId,omitempty"`
	EntityType string     `gorm:"type:varchar(50);column:entity_type" json:"entityType,omitempty"`
}

// SequenceScope identifies which display counter a number sequence feeds
type SequenceScope string

const (
	SequenceScopeWorkOrder SequenceScope = "work_order"
	SequenceScopeInvoice   SequenceScope = "invoice"
)

// NumberSequence backs the sequential display numbers for work orders and
// invoices. Incremented under a row lock so concurrent creators cannot
// collide the way max+1 assignment would.
type NumberSequence struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Scope        SequenceScope `gorm:"type:varchar(50);not null;uniqueIndex" json:"scope"`
	LastSequence int           `gorm:"not null;default:0;column:last_sequence" json:"lastSequence"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}
