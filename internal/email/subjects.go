package email

const (
	subjectQuoteFmt          = "Offerte %s"
	subjectQuoteExpiringFmt  = "Offerte %s verloopt binnenkort"
	subjectInvoiceFmt        = "Factuur %s"
	subjectInvoiceDueSoonFmt = "Herinnering: factuur %s vervalt binnenkort"
	subjectInvoiceOverdueFmt = "Betalingsherinnering: factuur %s is vervallen"
)
