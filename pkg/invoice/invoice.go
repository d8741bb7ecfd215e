// pkg/invoice/invoice.go

package invoice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Pair is one label/value line of a section.
type Pair struct {
	Label string
	Value string
}

// Pairs is a JSON object decoded with its key order preserved.
type Pairs []Pair

// UnmarshalJSON keeps the object's insertion order. Non-string values are
// kept as their JSON text.
func (p *Pairs) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	out := Pairs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, Pair{Label: key, Value: rawText(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = out
	return nil
}

// Scalar holds a JSON number or string as text.
type Scalar string

// UnmarshalJSON accepts both `21.88` and `"21.88"`.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return errors.New("expected number or string")
	}
	*s = Scalar(rawText(trimmed))
	return nil
}

// String returns the raw text.
func (s Scalar) String() string {
	return string(s)
}

func rawText(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}

// Variables represents the invoice_variables.json document. Every field is
// optional and a nil field means the key was absent.
type Variables struct {
	ProviderData       Pairs   `json:"provider_data"`
	ClientData         Pairs   `json:"client_data"`
	ServiceDescription *string `json:"service_description"`
	PaymentData        Pairs   `json:"payment_data"`
	HourlyRate         *Scalar `json:"hourly_rate"`
}

func (v Variables) HasProvider() bool   { return v.ProviderData != nil }
func (v Variables) HasClient() bool     { return v.ClientData != nil }
func (v Variables) HasService() bool    { return v.ServiceDescription != nil }
func (v Variables) HasPayment() bool    { return v.PaymentData != nil }
func (v Variables) HasHourlyRate() bool { return v.HourlyRate != nil }

// Labels holds the captions printed on the invoice.
type Labels struct {
	InfoTitle     string
	NumberLabel   string
	IssueLabel    string
	DueLabel      string
	ProviderTitle string
	ClientTitle   string
	ServiceTitle  string
	PaymentTitle  string
	TableHeader   [4]string
}

// LabelsPT are the Portuguese captions the invoice has always used.
var LabelsPT = Labels{
	InfoTitle:     "INFORMAÇÕES DA FATURA",
	NumberLabel:   "Número da Fatura",
	IssueLabel:    "Data de Emissão",
	DueLabel:      "Vencimento",
	ProviderTitle: "DADOS DO PRESTADOR DE SERVIÇO",
	ClientTitle:   "DADOS DO CLIENTE",
	ServiceTitle:  "DESCRIÇÃO DOS SERVIÇOS PRESTADOS",
	PaymentTitle:  "FORMA DE PAGAMENTO",
	TableHeader:   [4]string{"Descrição do Serviço", "Quantidade", "Valor Unitário (EUR)", "Total (EUR)"},
}

// LabelsEN is the English caption set.
var LabelsEN = Labels{
	InfoTitle:     "INVOICE INFORMATION",
	NumberLabel:   "Invoice Number",
	IssueLabel:    "Issue Date",
	DueLabel:      "Due Date",
	ProviderTitle: "SERVICE PROVIDER",
	ClientTitle:   "CLIENT",
	ServiceTitle:  "SERVICES PROVIDED",
	PaymentTitle:  "PAYMENT DETAILS",
	TableHeader:   [4]string{"Service Description", "Quantity", "Unit Rate (EUR)", "Total (EUR)"},
}

// LabelsFor returns the caption set for a locale, defaulting to Portuguese.
func LabelsFor(locale string) Labels {
	switch strings.ToLower(locale) {
	case "en":
		return LabelsEN
	default:
		return LabelsPT
	}
}
