package jobmeta

import "fmt"

// Employee is the slice of user data a detection model needs for the room a
// camera watches.
type Employee struct {
	ID          int64  `json:"id"`
	UserName    string `json:"userName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	ImgURL      string `json:"imgURL"`
	PhoneNumber string `json:"phoneNumber"`
}

// CameraJob describes one running detection container: the camera it feeds
// from, the room/model context, and the argv used to spawn it.
type CameraJob struct {
	CameraID     int64      `json:"cameraId"`
	CameraName   string     `json:"cameraName"`
	VideoLink    string     `json:"videoLink"`
	IP           string     `json:"ip,omitempty"`
	Port         int        `json:"port"`
	RoomID       int64      `json:"roomId"`
	RoomName     string     `json:"roomName"`
	MaxHeadCount int        `json:"maxHeadCount"`
	ModelID      int64      `json:"modelId"`
	ModelName    string     `json:"modelName"`
	Employees    []Employee `json:"emps,omitempty"`
	Command      []string   `json:"command,omitempty"`
}

// ContainerName is the deterministic name the spawn command must use so the
// stop sweep can find the container later.
func (j CameraJob) ContainerName() string {
	return fmt.Sprintf("camera_%d", j.CameraID)
}
