package consult

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemInstruction = "Bạn là một chuyên gia tư vấn bánh ngọt thân thiện và am hiểu tại 'Tiệm Bánh Vi Trần'. " +
	"Nhiệm vụ của bạn là gợi ý một sản phẩm phù hợp nhất từ danh sách thực đơn có sẵn, dựa trên yêu cầu của khách hàng. " +
	"Chỉ được phép gợi ý các sản phẩm có trong danh sách. Không được tự sáng tạo ra sản phẩm mới. " +
	"Giọng văn của bạn phải thật ấm áp, mời gọi và có một chút chất thơ. Luôn trả lời bằng tiếng Việt."

// Response field names the model must return.
const (
	FieldProductName = "productName"
	FieldReasoning   = "reasoning"
)

// Field is a required string property of the structured response.
type Field struct {
	Name        string
	Description string
}

// Prompt is a provider-neutral generation request.
type Prompt struct {
	SystemInstruction string
	Contents          string
	// Fields are the required string properties of the JSON object response.
	Fields []Field
}

// BuildPrompt frames the visitor's request with the list of menu names.
func BuildPrompt(names []string, input string) Prompt {
	contents := fmt.Sprintf("Dựa vào danh sách thực đơn sau: [%s]. Hãy gợi ý một sản phẩm cho yêu cầu này: \"%s\"",
		strings.Join(names, ", "), input)
	return Prompt{
		SystemInstruction: systemInstruction,
		Contents:          contents,
		Fields: []Field{
			{Name: FieldProductName, Description: "Tên chính xác của sản phẩm được gợi ý từ danh sách thực đơn."},
			{Name: FieldReasoning, Description: "Một lời giải thích ngắn gọn (2-3 câu), ấm áp và đầy chất thơ về lý do tại sao sản phẩm này là lựa chọn hoàn hảo."},
		},
	}
}

// Recommendation is the parsed model answer.
type Recommendation struct {
	ProductName string `json:"productName"`
	Reasoning   string `json:"reasoning"`
}

// ParseRecommendation decodes the model output. Non-JSON output or a missing/empty
// field yields ErrMalformedResponse.
func ParseRecommendation(text string) (Recommendation, error) {
	text = strings.TrimSpace(text)
	// some models wrap JSON in a markdown fence despite the mime type
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var rec Recommendation
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &rec); err != nil {
		return Recommendation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(rec.ProductName) == "" || strings.TrimSpace(rec.Reasoning) == "" {
		return Recommendation{}, fmt.Errorf("%w: missing %s or %s", ErrMalformedResponse, FieldProductName, FieldReasoning)
	}
	return rec, nil
}
