package interfaces

import "github.com/shopspring/decimal"

// IPixCodeGenerator derives the PIX copy-paste payload and its QR image.
// Both operations are pure functions of their inputs.
type IPixCodeGenerator interface {
	GenerateCopyPaste(serviceID string, amount decimal.Decimal, transactionID string) string
	GenerateQRCode(copyPaste string) (string, error)
}
