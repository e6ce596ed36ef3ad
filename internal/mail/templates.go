package mail

import (
	"fmt"
	"strings"
)

// ConfirmationItem is one line of an order confirmation mail.
type ConfirmationItem struct {
	Name     string
	Quantity int
	Price    float64
}

func VerificationSubject() string { return "Live MART - Verify your Account" }

func VerificationBody(otp string) string {
	return fmt.Sprintf(`
	<h3>Welcome to Live MART!</h3>
	<p>Please verify your email address to activate your account.</p>
	<p>Your Verification OTP is:</p>
	<h1 style='color: #4CAF50;'>%s</h1>
	<p>This OTP is valid for 30 minutes.</p>
	`, otp)
}

func PasswordResetSubject() string { return "Live MART - Password Reset OTP" }

func PasswordResetBody(otp string) string {
	return fmt.Sprintf(`
	<h3>Password Reset Request</h3>
	<p>Your OTP for resetting your password is:</p>
	<h1 style='color: #FF4B2B;'>%s</h1>
	<p>This OTP is valid for 10 minutes.</p>
	<p>If you did not request this, please ignore this email.</p>
	`, otp)
}

func OrderConfirmationSubject(orderID int64) string {
	return fmt.Sprintf("Order Confirmation - #%d", orderID)
}

func OrderConfirmationBody(name string, orderID int64, totalPrice float64, items []ConfirmationItem, address string) string {
	var rows strings.Builder
	for _, i := range items {
		rows.WriteString(fmt.Sprintf(`
		<tr>
			<td style='padding:8px; border-bottom:1px solid #eee;'>%s</td>
			<td style='padding:8px; border-bottom:1px solid #eee; text-align:center;'>%d</td>
			<td style='padding:8px; border-bottom:1px solid #eee; text-align:right;'>₹%.2f</td>
		</tr>
		`, i.Name, i.Quantity, i.Price))
	}

	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<div style="background-color: #000; color: #fff; padding: 20px; text-align: center;">
			<h2 style="margin:0; color: #00f3ff;">Order Confirmed!</h2>
			<p style="margin:5px 0 0;">Thank you for shopping with Live MART.</p>
		</div>
		<div style="padding: 20px;">
			<p>Hi <b>%s</b>,</p>
			<p>We have received your order <b>#%d</b> and it is now being processed.</p>
			<h3 style="border-bottom: 2px solid #00f3ff; padding-bottom: 5px;">Order Summary</h3>
			<table style="width: 100%%; border-collapse: collapse; font-size: 14px;">
				<tr style="background: #f9f9f9;">
					<th style="padding:8px; text-align:left;">Product</th>
					<th style="padding:8px; text-align:center;">Qty</th>
					<th style="padding:8px; text-align:right;">Price</th>
				</tr>
				%s
				<tr>
					<td colspan="2" style="padding:10px; text-align:right; font-weight:bold;">Total Amount:</td>
					<td style="padding:10px; text-align:right; font-weight:bold; color: #00f3ff;">₹%.2f</td>
				</tr>
			</table>
			<div style="background: #f9f9f9; padding: 10px; margin-top: 20px;">
				<h4 style="margin: 0 0 5px;">Shipping Address</h4>
				<p style="margin: 0; font-size: 13px; color: #555;">%s</p>
			</div>
		</div>
	</div>
	`, name, orderID, rows.String(), totalPrice, address)
}

func StatusUpdateSubject(orderID int64, newStatus string) string {
	return fmt.Sprintf("Order Update: #%d is now %s", orderID, newStatus)
}

func StatusUpdateBody(name string, orderID int64, newStatus string) string {
	// Shipped and Delivered get their own accent color.
	statusColor := "#00f3ff"
	switch newStatus {
	case "Shipped":
		statusColor = "#ff9800"
	case "Delivered":
		statusColor = "#4CAF50"
	}

	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background: #000; color: #fff;">
		<div style="background-color: %s; color: #000; padding: 15px; text-align: center;">
			<h2 style="margin:0; font-size: 20px;">Order #%d Update!</h2>
		</div>
		<div style="padding: 20px; background: #1a1a1a;">
			<p>Hi <b>%s</b>,</p>
			<p>There's an update regarding your recent order:</p>
			<h3 style="color: %s;">New Status: %s</h3>
			<p>Your order is now: <b>%s</b>.</p>
		</div>
	</div>
	`, statusColor, orderID, name, statusColor, strings.ToUpper(newStatus), newStatus)
}

func ContactQuerySubject(subject string) string {
	return fmt.Sprintf("New Query: %s", subject)
}

func ContactQueryBody(name, email, body string) string {
	return fmt.Sprintf(`
	<h3>New Customer Query</h3>
	<p><b>Name:</b> %s</p>
	<p><b>Email:</b> %s</p>
	<hr>
	<p>%s</p>
	`, name, email, body)
}
