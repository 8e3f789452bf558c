package handlers

type props map[string]any

func object(properties props, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any(properties),
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func integer(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func date(description string) map[string]any {
	return map[string]any{"type": "string", "format": "date", "description": description + " (yyyy-MM-dd)"}
}

func enum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": description}
}

func shiftFilterSchema(withStatus bool) map[string]any {
	p := props{
		"staffName":      str("Full or partial staff name"),
		"departmentName": str("Exact department name"),
		"shiftTypeName":  str("Exact shift type name"),
		"fromDate":       date("Earliest shift date"),
		"toDate":         date("Latest shift date"),
	}
	if withStatus {
		p["shiftStatusName"] = str("Exact shift status such as Planned, Published or Cancelled")
	}
	return object(p)
}
