package service

import (
	"fmt"

	"commissionhub/pkg/payment"

	"github.com/shopspring/decimal"
)

func msgAvailable(title string, budget decimal.Decimal) string {
	return fmt.Sprintf("New product \"%s\" is available with budget: %s", title, payment.FormatAmount(budget))
}

func msgAvailableAgain(title string, budget decimal.Decimal) string {
	return fmt.Sprintf("Product \"%s\" is available again with budget: %s", title, payment.FormatAmount(budget))
}

func msgTaken(title string) string {
	return fmt.Sprintf("Sorry, the product \"%s\" has already been taken by another seller.", title)
}

func msgAcceptedBy(title, seller string) string {
	return fmt.Sprintf("Your product \"%s\" has been accepted by %s", title, seller)
}

func msgDemoSubmitted(title, seller string) string {
	return fmt.Sprintf("New demo submitted for \"%s\" by %s", title, seller)
}

func msgDemoRejected(title, reason string) string {
	return fmt.Sprintf("Your demo for \"%s\" was rejected. Reason: %s", title, reason)
}

func msgDemoApproved(title string) string {
	return fmt.Sprintf("The user approved your demo for \"%s\". Awaiting admin delivery.", title)
}

func msgRejectedRequester(title string) string {
	return fmt.Sprintf("Your project \"%s\" has been rejected by the admin.", title)
}

func msgRejectedSeller(title string) string {
	return fmt.Sprintf("The project \"%s\" has been rejected by the admin.", title)
}

func msgDemoReady(title string, budget decimal.Decimal) string {
	return fmt.Sprintf("The demo for \"%s\" is ready for review. Please complete payment of %s to receive your project.", title, payment.FormatAmount(budget))
}

func msgPaymentReminder(title string, budget decimal.Decimal) string {
	return fmt.Sprintf("Reminder: Payment is still pending for \"%s\". Amount due: %s", title, payment.FormatAmount(budget))
}

func msgUserNotified(title string) string {
	return fmt.Sprintf("Admin has notified the user about your demo for \"%s\". Awaiting payment.", title)
}

func msgPaymentReceived(title, email string, amount decimal.Decimal) string {
	return fmt.Sprintf("Payment received for project \"%s\" from %s. Amount: %s", title, email, payment.FormatAmount(amount))
}

func msgDeliveredRequester(title string) string {
	return fmt.Sprintf("Your project \"%s\" has been delivered. Thank you for using our platform!", title)
}

func msgDeliveredSeller(title string) string {
	return fmt.Sprintf("Your project \"%s\" has been delivered to the client.", title)
}
