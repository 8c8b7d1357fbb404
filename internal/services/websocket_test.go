package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/petsustain/petsustain-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient registers a hub client without a real connection; messages
// land on the Send channel.
func testClient(t *testing.T, hub *Hub, id uint, role string) *Client {
	t.Helper()
	client := &Client{
		ID:   id,
		Role: role,
		Send: make(chan []byte, 16),
		Hub:  hub,
	}
	hub.register <- client
	return client
}

// waitForClients blocks until the hub has finished registering n clients
func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.GetConnectedClients() == n
	}, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case msg := <-client.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatalf("client %d received no message", client.ID)
		return nil
	}
}

func assertNoMessage(t *testing.T, client *Client) {
	t.Helper()
	select {
	case msg := <-client.Send:
		t.Fatalf("client %d unexpectedly received %s", client.ID, msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	donor := testClient(t, hub, 1, models.RoleDonor)
	rider := testClient(t, hub, 2, models.RoleRider)
	waitForClients(t, hub, 2)

	hub.BroadcastToUser(1, []byte("hello"))

	assert.Equal(t, "hello", string(receive(t, donor)))
	assertNoMessage(t, rider)
}

func TestHubBroadcastToRole(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	donor := testClient(t, hub, 1, models.RoleDonor)
	riderA := testClient(t, hub, 2, models.RoleRider)
	riderB := testClient(t, hub, 3, models.RoleRider)
	waitForClients(t, hub, 3)

	hub.BroadcastToRole(models.RoleRider, []byte("new donation"))

	assert.Equal(t, "new donation", string(receive(t, riderA)))
	assert.Equal(t, "new donation", string(receive(t, riderB)))
	assertNoMessage(t, donor)
}

func TestSendDonationCreatedTargetsRidersAndAdmins(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	donor := testClient(t, hub, 1, models.RoleDonor)
	rider := testClient(t, hub, 2, models.RoleRider)
	admin := testClient(t, hub, 3, models.RoleAdmin)
	waitForClients(t, hub, 3)

	donation := &models.Donation{
		DonorID:  1,
		FoodType: "Rice",
		Quantity: "5 kg",
		Status:   models.DonationStatusPending,
	}
	hub.SendDonationCreated(DonationCreated{Donation: donation})

	for _, client := range []*Client{rider, admin} {
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(receive(t, client), &msg))
		assert.Equal(t, "donation_created", msg.Type)
	}
	assertNoMessage(t, donor)
}

func TestSendDonationClaimedReachesDonor(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	donor := testClient(t, hub, 1, models.RoleDonor)
	otherDonor := testClient(t, hub, 5, models.RoleDonor)
	waitForClients(t, hub, 2)

	hub.SendDonationClaimed(1, DonationClaimed{
		DonationID: 10,
		RiderID:    2,
		Status:     models.DonationStatusAssigned,
	})

	var msg WebSocketMessage
	require.NoError(t, json.Unmarshal(receive(t, donor), &msg))
	assert.Equal(t, "donation_claimed", msg.Type)

	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(10), data["donationId"])
	assert.Equal(t, models.DonationStatusAssigned, data["status"])

	assertNoMessage(t, otherDonor)
}

func TestSendDonationDeliveredReachesShelterUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	donor := testClient(t, hub, 1, models.RoleDonor)
	shelterUser := testClient(t, hub, 4, models.RoleShelter)
	waitForClients(t, hub, 2)

	hub.SendDonationDelivered(1, 4, DonationDelivered{
		DonationID: 10,
		ShelterID:  2,
		Status:     models.DonationStatusDelivered,
	})

	var msg WebSocketMessage
	require.NoError(t, json.Unmarshal(receive(t, donor), &msg))
	assert.Equal(t, "donation_delivered", msg.Type)

	require.NoError(t, json.Unmarshal(receive(t, shelterUser), &msg))
	assert.Equal(t, "donation_delivered", msg.Type)
}

func TestGetConnectedClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	assert.Equal(t, 0, hub.GetConnectedClients())

	testClient(t, hub, 1, models.RoleDonor)
	testClient(t, hub, 2, models.RoleRider)

	assert.Eventually(t, func() bool {
		return hub.GetConnectedClients() == 2
	}, time.Second, 10*time.Millisecond)
}
