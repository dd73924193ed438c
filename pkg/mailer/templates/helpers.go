package templates

import (
	"time"

	"github.com/shopspring/decimal"
)

// Brand carries the footer fields shared by every email.
type Brand struct {
	AppName    string
	ClientURL  string
	SupportURL string
}

func (b Brand) base(typ, name, email string) EmailData {
	return EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		AppName:        b.AppName,
		ClientURL:      b.ClientURL,
		SupportURL:     b.SupportURL,
	}
}

func (b Brand) RegistrationOTP(name, email, role, code string, ttl time.Duration) map[string]any {
	d := b.base(RegistrationOTP, name, email)
	d.Code = code
	d.Role = role
	d.ExpiresInMinutes = int(ttl.Minutes())
	return ToMap(d)
}

func (b Brand) InterestReceived(contractorName, contractorEmail, fromName, fromPhone, fromEmail, jobType, preferredDate, message string) map[string]any {
	d := b.base(InterestReceived, contractorName, contractorEmail)
	d.FromName = fromName
	d.FromPhone = fromPhone
	d.FromEmail = fromEmail
	d.JobType = jobType
	d.PreferredDate = preferredDate
	d.Message = message
	return ToMap(d)
}

func (b Brand) OrderPlaced(storeName, storeEmail, orderID string, itemCount int, total decimal.Decimal) map[string]any {
	d := b.base(OrderPlaced, storeName, storeEmail)
	d.OrderID = orderID
	d.ItemCount = itemCount
	d.Total = total.StringFixed(2)
	return ToMap(d)
}
