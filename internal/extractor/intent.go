package extractor

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strings"
	"time"
)

// IntentLine 抽取得到的单个订货行
type IntentLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderIntent 下单意图
type OrderIntent struct {
	UseParLevel      bool         `json:"useParLevel"`
	Lines            []IntentLine `json:"items"`
	ExpectedDelivery *time.Time   `json:"expectedDeliveryDateTime,omitempty"`
}

var deliveryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseIntent 校验并解析抽取输出
func ParseIntent(raw string) (*OrderIntent, error) {
	body := stripCodeFence(raw)
	decoder := json.NewDecoder(strings.NewReader(body))
	decoder.UseNumber()

	var fields map[string]json.RawMessage
	if err := decoder.Decode(&fields); err != nil || fields == nil {
		return nil, &ExtractionFormatError{Raw: raw, Reason: "not a json object"}
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, &ExtractionFormatError{Raw: raw, Reason: "trailing data after json object"}
	}

	intent := &OrderIntent{Lines: []IntentLine{}}
	if value, ok := fields["useParLevel"]; ok {
		var flag bool
		// 非布尔值按 false 处理
		if err := json.Unmarshal(value, &flag); err == nil {
			intent.UseParLevel = flag
		}
	}

	lines, err := parseLines(fields["items"])
	if err != nil {
		return nil, &ExtractionFormatError{Raw: raw, Reason: err.Error()}
	}
	intent.Lines = lines

	delivery, err := parseDelivery(fields["expectedDeliveryDateTime"])
	if err != nil {
		return nil, &ExtractionFormatError{Raw: raw, Reason: err.Error()}
	}
	intent.ExpectedDelivery = delivery
	return intent, nil
}

type formatReason string

func (r formatReason) Error() string { return string(r) }

func parseLines(value json.RawMessage) ([]IntentLine, error) {
	lines := []IntentLine{}
	if isNull(value) {
		return lines, nil
	}
	var items []map[string]json.RawMessage
	decoder := json.NewDecoder(bytes.NewReader(value))
	decoder.UseNumber()
	if err := decoder.Decode(&items); err != nil {
		return nil, formatReason("items is not an array of objects")
	}
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item["name"], &name); err != nil || strings.TrimSpace(name) == "" {
			return nil, formatReason("item name missing")
		}
		quantity, ok := parseQuantity(item["quantity"])
		if !ok {
			return nil, formatReason("item quantity is not an integer")
		}
		lines = append(lines, IntentLine{Name: strings.TrimSpace(name), Quantity: quantity})
	}
	return lines, nil
}

func parseQuantity(value json.RawMessage) (int, bool) {
	if isNull(value) {
		return 0, false
	}
	var number json.Number
	decoder := json.NewDecoder(bytes.NewReader(value))
	decoder.UseNumber()
	if err := decoder.Decode(&number); err != nil {
		return 0, false
	}
	if n, err := number.Int64(); err == nil {
		return int(n), true
	}
	f, err := number.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func parseDelivery(value json.RawMessage) (*time.Time, error) {
	if isNull(value) {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		return nil, formatReason("expectedDeliveryDateTime is not a string")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	for _, layout := range deliveryLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return &parsed, nil
		}
	}
	return nil, formatReason("expectedDeliveryDateTime is not ISO-8601")
}

func isNull(value json.RawMessage) bool {
	trimmed := bytes.TrimSpace(value)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// stripCodeFence 去掉模型偶尔包裹的 markdown 代码块
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
