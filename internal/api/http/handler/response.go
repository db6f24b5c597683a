package handler

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope every API endpoint answers with. Field names
// keep the capitalized wire format existing clients already parse.
type Response struct {
	Status   bool   `json:"Status"`
	JwtToken string `json:"JwtToken"`
	Msg      string `json:"Msg"`
}

// WriteJSON writes the response envelope with the given HTTP status code.
func WriteJSON(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
