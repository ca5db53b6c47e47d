package workers

import (
	"testing"

	"awaam-raaj-backend/models"

	"github.com/stretchr/testify/require"
)

func TestBroadcastStatus(t *testing.T) {
	tests := []struct {
		name       string
		sent       int64
		recipients int
		want       models.AnnouncementStatus
	}{
		{name: "all delivered", sent: 10, recipients: 10, want: models.AnnouncementStatusSent},
		{name: "partial delivery still counts as sent", sent: 1, recipients: 10, want: models.AnnouncementStatusSent},
		{name: "zero deliveries with recipients is a failure", sent: 0, recipients: 10, want: models.AnnouncementStatusFailed},
		{name: "empty audience is sent, not failed", sent: 0, recipients: 0, want: models.AnnouncementStatusSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, broadcastStatus(tt.sent, tt.recipients))
		})
	}
}
