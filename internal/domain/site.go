package domain

type Warehouse struct {
	ID       int32  `json:"id"`
	Name     string `json:"nazwa"`
	Address  string `json:"adres"`
	Capacity int32  `json:"pojemnosc"`
}

type Workshop struct {
	ID      int32  `json:"id"`
	Name    string `json:"nazwa"`
	Address string `json:"adres"`
}
