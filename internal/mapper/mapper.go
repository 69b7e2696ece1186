package mapper

import (
	"github.com/veltra-services/fieldservice-api/internal/domain"
)

// ToCustomerDTO converts Customer to CustomerDTO
func ToCustomerDTO(customer *domain.Customer, workOrderCount int) domain.CustomerDTO {
	return domain.CustomerDTO{
		ID:             customer.ID,
		Name:           customer.Name,
		LastName:       customer.LastName(),
		Email:          customer.Email,
		Phone:          customer.Phone,
		Address:        customer.Address,
		City:           customer.City,
		PostalCode:     customer.PostalCode,
		WorkOrderCount: workOrderCount,
		CreatedAt:      customer.CreatedAt,
	}
}

// ToInvoiceDTO converts Invoice to InvoiceDTO. The computed total is derived
// from the current service lines and the work order's materials; the cached
// TotalAmount is reported alongside it.
func ToInvoiceDTO(invoice *domain.Invoice, materialsTotal float64) domain.InvoiceDTO {
	services := invoice.Services
	if services == nil {
		services = []domain.ServiceItem{}
	}
	return domain.InvoiceDTO{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
		Services:      services,
		TaxPercentage: invoice.TaxPercentage,
		TotalAmount:   invoice.TotalAmount,
		ComputedTotal: invoice.ComputedTotal(materialsTotal),
		Status:        invoice.Status,
		PaymentMethod: invoice.PaymentMethod,
		WorkOrderID:   invoice.WorkOrderID,
	}
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:               user.ID,
		Email:            user.Email,
		DisplayName:      user.DisplayName,
		Role:             user.Role,
		CompanyCode:      user.CompanyCode,
		AdminID:          user.AdminID,
		NotifyOnLowStock: user.NotifyOnLowStock,
		NotifyOnMessages: user.NotifyOnMessages,
		NotifyOnSchedule: user.NotifyOnSchedule,
		SubscriptionPlan: user.SubscriptionPlan,
		PaymentLink:      user.PaymentLink,
		LastLoginAt:      user.LastLoginAt,
	}
}

// ToLeaderboardEntry converts a Tradesman to a leaderboard row
func ToLeaderboardEntry(tradesman *domain.Tradesman) domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		TradesmanID:   tradesman.ID,
		Name:          tradesman.Name,
		Points:        tradesman.Points,
		JobsCompleted: tradesman.JobsCompleted,
		Streak:        tradesman.JobCompletionStreak,
		BadgeCount:    len(tradesman.Badges),
	}
}
