package pix

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"marketplace_api/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EMV field ids used by the BR Code payload.
const (
	idPayloadFormat       = "00"
	idMerchantAccount     = "26"
	idMerchantCategory    = "52"
	idCurrency            = "53"
	idAmount              = "54"
	idCountry             = "58"
	idMerchantName        = "59"
	idMerchantCity        = "60"
	idAdditionalData      = "62"
	idCRC                 = "63"
	idAccountGUI          = "00"
	idAccountKey          = "01"
	idAccountDescription  = "02"
	idAdditionalReference = "05"
)

const (
	pixGUI          = "br.gov.bcb.pix"
	currencyBRL     = "986"
	maxFieldLength  = 99
	maxAmountLength = 13
	maxNameLength   = 25
	maxCityLength   = 15
	maxRefLength    = 25
	qrCodeSize      = 256
	qrDataURIPrefix = "data:image/png;base64,"
)

// Generator builds PIX "copia e cola" payloads for a fixed merchant.
type Generator struct {
	key          string
	merchantName string
	merchantCity string
}

var _ interfaces.IPixCodeGenerator = (*Generator)(nil)

// NewGenerator trims key to what fits in the merchant account template next
// to the PIX GUI.
func NewGenerator(key, merchantName, merchantCity string) *Generator {
	maxKeyLength := maxFieldLength - len(field(idAccountGUI, pixGUI)) - len(idAccountKey) - 2
	return &Generator{
		key:          truncate(strings.TrimSpace(key), maxKeyLength),
		merchantName: truncate(sanitize(merchantName), maxNameLength),
		merchantCity: truncate(sanitize(merchantCity), maxCityLength),
	}
}

// GenerateCopyPaste returns the EMV payload for amount, tagged with the
// service id and a reference label derived from transactionID. An amount
// wider than the 13 characters the field allows is left out, so the payer
// types it in.
func (g *Generator) GenerateCopyPaste(serviceID string, amount decimal.Decimal, transactionID string) string {
	account := field(idAccountGUI, pixGUI) + field(idAccountKey, g.key)
	if room := maxFieldLength - len(account) - 4; room > 0 && serviceID != "" {
		account += field(idAccountDescription, truncate(serviceID, room))
	}

	ref := truncate(alphanumeric(transactionID), maxRefLength)
	if ref == "" {
		ref = "***"
	}

	var b strings.Builder
	b.WriteString(field(idPayloadFormat, "01"))
	b.WriteString(field(idMerchantAccount, account))
	b.WriteString(field(idMerchantCategory, "0000"))
	b.WriteString(field(idCurrency, currencyBRL))
	if value := amount.StringFixed(2); len(value) <= maxAmountLength {
		b.WriteString(field(idAmount, value))
	}
	b.WriteString(field(idCountry, "BR"))
	b.WriteString(field(idMerchantName, g.merchantName))
	b.WriteString(field(idMerchantCity, g.merchantCity))
	b.WriteString(field(idAdditionalData, field(idAdditionalReference, ref)))
	b.WriteString(idCRC + "04")

	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload)))
}

// GenerateQRCode renders copyPaste as a PNG data URI.
func (g *Generator) GenerateQRCode(copyPaste string) (string, error) {
	png, err := qrcode.Encode(copyPaste, qrcode.Medium, qrCodeSize)
	if err != nil {
		return "", fmt.Errorf("encode pix qr code: %w", err)
	}
	return qrDataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// field encodes one TLV entry. Values longer than the two-digit length
// allows are cut.
func field(id, value string) string {
	value = truncate(value, maxFieldLength)
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16CCITT is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF).
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// sanitize strips accents and upper-cases merchant fields; BR Code readers
// only accept ASCII there.
func sanitize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

func alphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
