package model

import "time"

// EmailCampaign is a marketing mail-out.  Admins can list and delete them.
type EmailCampaign struct {
    ID        uint64    `json:"id"`
    Name      string    `json:"name"`
    Subject   string    `json:"subject"`
    Status    string    `json:"status"`
    SentCount uint32    `json:"sent_count"`
    CreatedAt time.Time `json:"created_at"`
}
