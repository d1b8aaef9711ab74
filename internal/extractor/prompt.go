package extractor

import (
	"fmt"
	"strings"
	"time"
)

const systemPromptTemplate = `You are an assistant that turns purchase orders written by restaurant staff into structured JSON.
Current date and time: %s. Resolve relative delivery dates such as "tomorrow" or "next Monday" against it.

Return ONLY a JSON object, without any extra text or markdown, in exactly this shape:
{
  "useParLevel": false,
  "items": [
    { "name": "lettuce", "quantity": 10 },
    { "name": "cola", "quantity": 2 }
  ],
  "expectedDeliveryDateTime": "2024-03-15T09:00:00Z"
}

Rules:
- "useParLevel" is true only when the text asks for the usual, standing, default or par-level order.
- "items" lists every explicitly requested product with an integer "quantity". Use an empty array when none are named.
- Keep item names short and generic, as the customer wrote them.
- Omit "expectedDeliveryDateTime" when no delivery time is mentioned; otherwise use ISO-8601.`

// BuildSystemPrompt 构造抽取指令，当前时间作为相对日期基准
func BuildSystemPrompt(now time.Time) string {
	return fmt.Sprintf(systemPromptTemplate, now.Format(time.RFC3339))
}

// BuildUserPrompt 构造用户消息
func BuildUserPrompt(text string) string {
	return "User input:\n" + strings.TrimSpace(text) + "\n"
}
