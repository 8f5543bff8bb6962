package assistant

import (
	"fmt"
	"strings"

	"github.com/bull/rag-assistant/internal/llm"
)

// BookingToolName is the only tool the model is offered.
const BookingToolName = "book_interview"

// bookingFields lists the tool arguments in the order they are asked for.
var bookingFields = []string{"name", "email", "date", "time"}

const systemPolicy = `You are a helpful Banking Assistant.
STRICT RULES:
1. Use the provided context to answer questions. If the context does not contain the answer, say that you do not know. Never invent facts.
2. If the user wants to book an interview, you MUST ask for their Name, Email, Date, and Time.
3. DO NOT call 'book_interview' until ALL 4 details (name, email, date, time) have been provided by the user.
4. DO NOT make up or guess any of these details.`

// BookingTool declares book_interview with all four arguments required.
func BookingTool() llm.Tool {
	return llm.Tool{
		Name:        BookingToolName,
		Description: "Book an interview appointment for the user. Only call this once the user has given their name, email, date (YYYY-MM-DD) and time (HH:MM).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string", "description": "Full name of the user"},
				"email": map[string]any{"type": "string", "description": "Email address of the user"},
				"date":  map[string]any{"type": "string", "description": "Interview date in YYYY-MM-DD format"},
				"time":  map[string]any{"type": "string", "description": "Interview time in HH:MM 24-hour format"},
			},
			"required": bookingFields,
		},
	}
}

// systemPrompt renders the fixed policy, any booking details gathered so far, and
// the retrieved context.
func systemPrompt(draft map[string]string, context string) string {
	var b strings.Builder
	b.WriteString(systemPolicy)

	if collected := describeDraft(draft); collected != "" {
		b.WriteString("\n\nBooking details already collected: ")
		b.WriteString(collected)
		b.WriteString(".")
	}

	b.WriteString("\n\nContext: ")
	b.WriteString(context)
	return b.String()
}

func describeDraft(draft map[string]string) string {
	parts := make([]string, 0, len(bookingFields))
	for _, f := range bookingFields {
		if v := draft[f]; v != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", f, v))
		}
	}
	return strings.Join(parts, ", ")
}

func missingFields(draft map[string]string) []string {
	var missing []string
	for _, f := range bookingFields {
		if strings.TrimSpace(draft[f]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// joinFields renders ["date", "time"] as "date and time".
func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
	}
}
