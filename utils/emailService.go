package utils

import (
	"fmt"
	"lms/config"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Summit Academy <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E3A5F; line-height: 1.6; }
			.content h2 { color: #1E3A5F; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3B82F6; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3B82F6; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SUMMIT ACADEMY</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Summit Academy. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Summit Academy"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Summit Academy</strong>! Your account has been created.</p>
		<p>Browse the course catalog, enroll in your grade-level courses and start working toward your diploma.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Enrollment Confirmation
func SendEnrollmentEmail(email, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Open your dashboard to start the first lesson.
		</div>
	`, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Successful", body))
}

// 3. Payment Receipt
func SendPaymentReceiptEmail(email, name string, amount float64, description string) {
	subject := "Payment Received"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>$%.2f</strong>.</p>
		<p>%s</p>
		<p>Thank you for being part of Summit Academy.</p>
	`, name, amount, description)

	go SendEmail([]string{email}, subject, getEmailTemplate("Payment Confirmed", body))
}

// 4. Payment Failed
func SendPaymentFailedEmail(email, name string, amount float64) {
	subject := "Payment Failed"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your payment of <strong>$%.2f</strong> could not be processed.</p>
		<p style="color: #DC3545; font-weight: bold;">Please update your payment method and try again.</p>
	`, name, amount)

	go SendEmail([]string{email}, subject, getEmailTemplate("Payment Failed", body))
}

// 5. Payment Reminder (scheduler)
func SendPaymentReminderEmail(email, name string, amount float64, dueDate string) {
	subject := "Upcoming Tuition Payment"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your next tuition installment of <strong>$%.2f</strong> is due on <strong>%s</strong>.</p>
		<div class="info-box">
			Make sure your payment method is up to date to avoid interruption of course access.
		</div>
	`, name, amount, dueDate)

	go SendEmail([]string{email}, subject, getEmailTemplate("Payment Reminder", body))
}

// 6. Course Completed
func SendCourseCompletedEmail(email, name, courseTitle string, credits int) {
	subject := "Course Completed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have completed <strong>%s</strong> and earned <strong>%d credits</strong>.</p>
		<p>Check your dashboard to see your updated graduation progress.</p>
	`, name, courseTitle, credits)

	go SendEmail([]string{email}, subject, getEmailTemplate("Course Completed", body))
}

// 7. Assignment Graded
func SendGradeNotificationEmail(email, name, assignmentTitle string, score, points float64) {
	subject := "Assignment Graded: " + assignmentTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your submission for <strong>%s</strong> has been graded.</p>
		<div class="info-box">
			<strong>Score:</strong> %.1f / %.1f
		</div>
		<p>Login to your dashboard to view feedback.</p>
	`, name, assignmentTitle, score, points)

	go SendEmail([]string{email}, subject, getEmailTemplate("New Grade Posted", body))
}
