package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	AdminTo  string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		AdminTo:  os.Getenv("ADMIN_NOTIFY_EMAIL"),
	}
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if config.Host == "" || config.Port == "" || config.From == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

// OrderEmailItem is one line of the order summary in a confirmation email.
type OrderEmailItem struct {
	Name     string
	Price    float64
	Quantity int
}

func formatItemList(items []OrderEmailItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("- %s (%dx) - ₹%.2f", it.Name, it.Quantity, it.Price))
	}
	return strings.Join(lines, "<br>")
}

// SendOrderEmails sends the new-order notification pair: one message to the
// configured admin address and one confirmation to the customer. Delivery is
// best-effort in a background goroutine; failures are logged and swallowed
// and never affect the order itself.
func SendOrderEmails(orderID, customerName, customerEmail, address, phone, pin, paymentMethod string, items []OrderEmailItem, totalPrice float64) {
	go func() {
		config := GetEmailConfig()
		itemList := formatItemList(items)

		if config.AdminTo != "" {
			subject := fmt.Sprintf("New Order Received! #ORD-%s", orderID)
			body := fmt.Sprintf(`<h2>New Order Alert!</h2>
<p>A new order has been placed on the store.</p>
<p><strong>Order ID:</strong> #ORD-%s</p>
<p><strong>Customer:</strong> %s</p>
<p><strong>Contact:</strong> %s</p>
<p><strong>Payment:</strong> %s</p>
<p><strong>Total Amount:</strong> ₹%.2f</p>
<h3>Items:</h3>
<p>%s</p>
<h3>Delivery Address:</h3>
<p>%s, %s</p>`, orderID, customerName, phone, paymentMethod, totalPrice, itemList, address, pin)
			if err := SendEmail(config.AdminTo, subject, body); err != nil {
				logrus.WithError(err).WithField("order_id", orderID).Warn("failed to send admin order email")
			}
		}

		if customerEmail != "" {
			subject := fmt.Sprintf("Order Confirmed! #ORD-%s", orderID)
			body := fmt.Sprintf(`<h1>Order Confirmed!</h1>
<p>Hello %s, thank you for shopping with us! Your order has been successfully placed.</p>
<h3>Order Summary #ORD-%s</h3>
<p>%s</p>
<p><strong>Total: ₹%.2f</strong></p>
<p>We are getting your order ready for shipment. Stay tuned!</p>`, customerName, orderID, itemList, totalPrice)
			if err := SendEmail(customerEmail, subject, body); err != nil {
				logrus.WithError(err).WithField("order_id", orderID).Warn("failed to send order confirmation email")
			}
		}
	}()
}

// SendOrderStatusUpdate notifies both the admin and the customer that an
// order changed status. Same best-effort contract as SendOrderEmails.
func SendOrderStatusUpdate(orderID, customerName, customerEmail, productName, status string) {
	go func() {
		config := GetEmailConfig()

		if config.AdminTo != "" {
			subject := fmt.Sprintf("Order #ORD-%s updated: %s", orderID, status)
			body := fmt.Sprintf(`<h2>Order Update</h2>
<p>Order #ORD-%s has been updated to: <strong>%s</strong></p>
<p><strong>Customer:</strong> %s</p>
<p><strong>Product:</strong> %s</p>`, orderID, status, customerName, productName)
			if err := SendEmail(config.AdminTo, subject, body); err != nil {
				logrus.WithError(err).WithField("order_id", orderID).Warn("failed to send admin status email")
			}
		}

		if customerEmail != "" {
			subject := fmt.Sprintf("Order #ORD-%s - Status Update", orderID)
			body := fmt.Sprintf(`<h1>Order %s</h1>
<p>Hello %s, your order for <strong>%s</strong> is now <strong>%s</strong>.</p>
<p><strong>Order ID:</strong> #ORD-%s</p>`, status, customerName, productName, status, orderID)
			if err := SendEmail(customerEmail, subject, body); err != nil {
				logrus.WithError(err).WithField("order_id", orderID).Warn("failed to send status update email")
			}
		}
	}()
}
