package model

import "encoding/json"

type ApiErrorResponse map[string]any

func (e ApiErrorResponse) String() string {
	bytes, err := json.Marshal(e)
	if err != nil {
		return "cannot define error response"
	}

	return string(bytes)
}

// Code returns the numeric "code" field of the response, 0 when absent.
func (e ApiErrorResponse) Code() int {
	if v, ok := e["code"].(float64); ok {
		return int(v)
	}

	return 0
}
