package wire

// MalformedRequestLabel marks requests whose body or query could not be read.
const MalformedRequestLabel = "Malformed request"

// Malformed builds the pair answered to unreadable requests.
func Malformed(err error) ErrorAndReason {
	return ErrorAndReason{Label: MalformedRequestLabel, Reason: err.Error()}
}

// Status summarises a node.
type Status struct {
	NodeID    string `json:"node_id"`
	Length    int    `json:"length"`
	LastIndex uint64 `json:"last_index"`
	LastHash  string `json:"last_hash"`
	Peers     int    `json:"peers"`
}
