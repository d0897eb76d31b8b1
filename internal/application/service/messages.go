package service

import (
	"fmt"
	"strings"

	appdomain "github.com/smallbiznis/loanhub/internal/application/domain"
	notifdomain "github.com/smallbiznis/loanhub/internal/notification/domain"
)

func applicantCreatedEmail(app *appdomain.LoanApplication) notifdomain.EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", strings.TrimSpace(app.Applicant.FirstName))
	fmt.Fprintf(&b, "We received your loan application with %s.\n", app.Offer.Provider)
	fmt.Fprintf(&b, "Amount: %s over %d months, monthly installment %s.\n",
		app.Offer.Amount.StringFixed(2),
		app.Offer.DurationMonths,
		app.Offer.MonthlyInstallment.StringFixed(2),
	)
	fmt.Fprintf(&b, "\nYour application reference is %s.\n", app.ID.String())
	return notifdomain.EmailMessage{
		To:      app.ApplicantEmail,
		Subject: "Your loan application was received",
		Body:    b.String(),
	}
}

func providerCreatedEmail(contact string, app *appdomain.LoanApplication) notifdomain.EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "A new loan application references your offer %s.\n", app.Offer.OfferID)
	fmt.Fprintf(&b, "Amount: %s over %d months at %s%% APR.\n",
		app.Offer.Amount.StringFixed(2),
		app.Offer.DurationMonths,
		app.Offer.AnnualRate.String(),
	)
	fmt.Fprintf(&b, "Application reference: %s.\n", app.ID.String())
	return notifdomain.EmailMessage{
		To:      contact,
		Subject: fmt.Sprintf("New application for offer %s", app.Offer.OfferID),
		Body:    b.String(),
	}
}

func applicantStatusEmail(app *appdomain.LoanApplication, reason *string) notifdomain.EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", strings.TrimSpace(app.Applicant.FirstName))
	switch app.Status {
	case appdomain.StatusRejected:
		b.WriteString("Unfortunately your loan application was rejected.\n")
		if reason != nil && strings.TrimSpace(*reason) != "" {
			fmt.Fprintf(&b, "Reason: %s\n", strings.TrimSpace(*reason))
		}
	case appdomain.StatusGranted:
		fmt.Fprintf(&b, "Your loan with %s has been granted. Congratulations!\n", app.Offer.Provider)
	default:
		fmt.Fprintf(&b, "Your loan application status changed to %s.\n", app.Status)
	}
	fmt.Fprintf(&b, "\nApplication reference: %s.\n", app.ID.String())
	return notifdomain.EmailMessage{
		To:      app.ApplicantEmail,
		Subject: "Your loan application status changed",
		Body:    b.String(),
	}
}
