package meter

import "time"

// Data is one readout of the appliance circuit meter, published on the
// meter topic next to the sensor state.
type Data struct {
	Id        string    `json:"id"`
	Model     string    `json:"model"`
	Time      time.Time `json:"time"`
	Current_W float64   `json:"w,omitempty"`
	Total_WH  float64   `json:"wh,omitempty"`
	L1_A      float64   `json:"l1_a,omitempty"`
	L2_A      float64   `json:"l2_a,omitempty"`
	L3_A      float64   `json:"l3_a,omitempty"`
}
