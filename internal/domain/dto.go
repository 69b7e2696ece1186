package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// --- Auth ---

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"required,max=200"`
	Role        string `json:"role" validate:"required,oneof=admin technician"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *UserDTO  `json:"user"`
}

type LinkCompanyRequest struct {
	CompanyCode string `json:"companyCode" validate:"required,max=50"`
}

type UpdateNotificationPrefsRequest struct {
	NotifyOnLowStock *bool `json:"notifyOnLowStock"`
	NotifyOnMessages *bool `json:"notifyOnMessages"`
	NotifyOnSchedule *bool `json:"notifyOnSchedule"`
}

type UpdateSubscriptionRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free pro"`
}

type UpdatePaymentLinkRequest struct {
	PaymentLink string `json:"paymentLink" validate:"required,url,max=500"`
}

// UserDTO is the outward representation of a user account
type UserDTO struct {
	ID               uuid.UUID        `json:"id"`
	Email            string           `json:"email"`
	DisplayName      string           `json:"displayName"`
	Role             UserRoleType     `json:"role"`
	CompanyCode      string           `json:"companyCode,omitempty"`
	AdminID          *uuid.UUID       `json:"adminId,omitempty"`
	NotifyOnLowStock bool             `json:"notifyOnLowStock"`
	NotifyOnMessages bool             `json:"notifyOnMessages"`
	NotifyOnSchedule bool             `json:"notifyOnSchedule"`
	SubscriptionPlan SubscriptionPlan `json:"subscriptionPlan"`
	PaymentLink      string           `json:"paymentLink,omitempty"`
	LastLoginAt      *time.Time       `json:"lastLoginAt,omitempty"`
}

// --- Customers ---

type CreateCustomerRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	Phone      string `json:"phone" validate:"max=50"`
	Address    string `json:"address" validate:"max=500"`
	City       string `json:"city" validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"max=20"`
}

type UpdateCustomerRequest = CreateCustomerRequest

// CustomerDTO carries the derived last name alongside the stored fields
type CustomerDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	PostalCode     string    `json:"postalCode"`
	WorkOrderCount int       `json:"workOrderCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// --- Work orders ---

type CreateWorkOrderRequest struct {
	Category     string      `json:"category" validate:"required,max=100"`
	Description  string      `json:"description" validate:"max=5000"`
	ScheduledAt  *time.Time  `json:"scheduledAt"`
	Notes        string      `json:"notes" validate:"max=5000"`
	IsCallback   bool        `json:"isCallback"`
	CustomerID   uuid.UUID   `json:"customerId" validate:"required"`
	TradesmanIDs []uuid.UUID `json:"tradesmanIds"`
}

type UpdateWorkOrderRequest struct {
	Category    string     `json:"category" validate:"required,max=100"`
	Description string     `json:"description" validate:"max=5000"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Notes       string     `json:"notes" validate:"max=5000"`
	IsCallback  bool       `json:"isCallback"`
}

type ChangeWorkOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open completed incomplete"`
}

type PutMaterialsRequest struct {
	Materials []MaterialInput `json:"materials" validate:"required,dive"`
}

type MaterialInput struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type CreateTaskRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type AssignTradesmenRequest struct {
	TradesmanIDs []uuid.UUID `json:"tradesmanIds" validate:"required,min=1"`
}

// --- Invoices ---

type CreateInvoiceRequest struct {
	WorkOrderID   uuid.UUID          `json:"workOrderId" validate:"required"`
	DueDate       *time.Time         `json:"dueDate"`
	TaxPercentage float64            `json:"taxPercentage" validate:"gte=0,lte=100"`
	PaymentMethod string             `json:"paymentMethod" validate:"max=100"`
	Services      []ServiceItemInput `json:"services" validate:"dive"`
}

type UpdateInvoiceServicesRequest struct {
	Services []ServiceItemInput `json:"services" validate:"required,dive"`
}

type ServiceItemInput struct {
	Description string  `json:"description" validate:"max=500"`
	Name        string  `json:"name" validate:"required,max=200"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
}

type SetInvoiceStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=paid unpaid"`
	PaymentMethod string `json:"paymentMethod" validate:"max=100"`
}

// InvoiceDTO always carries the computed total alongside the cached one
type InvoiceDTO struct {
	ID            uuid.UUID     `json:"id"`
	InvoiceNumber int           `json:"invoiceNumber"`
	IssueDate     time.Time     `json:"issueDate"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	Services      []ServiceItem `json:"services"`
	TaxPercentage float64       `json:"taxPercentage"`
	TotalAmount   float64       `json:"totalAmount"`
	ComputedTotal float64       `json:"computedTotal"`
	Status        InvoiceStatus `json:"status"`
	PaymentMethod string        `json:"paymentMethod"`
	WorkOrderID   uuid.UUID     `json:"workOrderId"`
}

// --- Inventory ---

type CreateInventoryItemRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Price         float64 `json:"price" validate:"gte=0"`
	Quantity      int16   `json:"quantity" validate:"gte=0"`
	Category      string  `json:"category" validate:"max=100"`
	LowThreshold  int16   `json:"lowThreshold" validate:"gte=0"`
	HighThreshold int16   `json:"highThreshold" validate:"gte=0"`
}

type UpdateInventoryItemRequest = CreateInventoryItemRequest

type AssignInventoryRequest struct {
	TradesmanID uuid.UUID `json:"tradesmanId" validate:"required"`
	Quantity    int16     `json:"quantity" validate:"required"`
}

type RecordUsageRequest struct {
	QuantityUsed int16 `json:"quantityUsed" validate:"required,gt=0"`
}

// --- Tradesmen ---

type CreateTradesmanRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	JobTitle string `json:"jobTitle" validate:"max=100"`
	Phone    string `json:"phone" validate:"max=50"`
	Address  string `json:"address" validate:"max=500"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
}

type UpdateTradesmanRequest = CreateTradesmanRequest

type AwardBadgeRequest struct {
	Badge string `json:"badge" validate:"required,max=100"`
}

// LeaderboardEntry is one row of the points leaderboard
type LeaderboardEntry struct {
	TradesmanID   uuid.UUID `json:"tradesmanId"`
	Name          string    `json:"name"`
	Points        int32     `json:"points"`
	JobsCompleted int32     `json:"jobsCompleted"`
	Streak        int32     `json:"streak"`
	BadgeCount    int       `json:"badgeCount"`
}

// --- Messaging ---

type CreateConversationRequest struct {
	Participants string `json:"participants" validate:"required,max=500"`
}

type PostMessageRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// --- Sync ---

type SyncNotifyResponse struct {
	Accepted bool   `json:"accepted"`
	State    string `json:"state"`
}

// RosterSyncResult summarizes one roster sync pass
type RosterSyncResult struct {
	Seen    int `json:"seen"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
