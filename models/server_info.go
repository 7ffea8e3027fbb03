package models

// ServerInfo is the body of GET /api/info.
type ServerInfo struct {
	Version       string `json:"version"`
	Storage       string `json:"storage"`
	AccessControl bool   `json:"access_control"`
	GRPC          bool   `json:"grpc"`
}
