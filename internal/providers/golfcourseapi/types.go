package golfcourseapi

type searchResponse struct {
	Courses []courseResponse `json:"courses"`
}

type courseResponse struct {
	ID         int              `json:"id"`
	ClubName   string           `json:"club_name"`
	CourseName string           `json:"course_name"`
	Location   locationResponse `json:"location"`
}

type locationResponse struct {
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
