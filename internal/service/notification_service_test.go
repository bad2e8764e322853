package service

import (
	"testing"
	"time"

	"mls_backend/internal/model"
	"mls_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolePtr(r model.UserRole) *model.UserRole { return &r }

func TestSendEnforcesRoleMatrix(t *testing.T) {
	f := newFixture(t)

	// Trainer may address students.
	n, err := f.Notifications.Send(f.actor(f.trainer), SendNotificationRequest{
		Title:      "Lab moved",
		Message:    "Lab session moved to 2pm.",
		TargetRole: rolePtr(model.Student),
	})
	require.NoError(t, err)
	assert.Equal(t, model.NotificationGeneral, n.Type)

	// Trainer may not address HODs.
	_, err = f.Notifications.Send(f.actor(f.trainer), SendNotificationRequest{
		Title:      "Nope",
		Message:    "msg",
		TargetRole: rolePtr(model.HOD),
	})
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	// Students send to nobody.
	_, err = f.Notifications.Send(f.actor(f.student), SendNotificationRequest{
		Title:      "Nope",
		Message:    "msg",
		TargetRole: rolePtr(model.Student),
	})
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	// Admin may address anyone, including other admins.
	_, err = f.Notifications.Send(f.actor(f.admin), SendNotificationRequest{
		Title:      "Maintenance window",
		Message:    "Portal down Saturday night.",
		TargetRole: rolePtr(model.Admin),
	})
	assert.NoError(t, err)
}

func TestSendExplicitRecipientsCheckedPerTarget(t *testing.T) {
	f := newFixture(t)

	// One allowed target plus one disallowed target rejects the whole send.
	_, err := f.Notifications.Send(f.actor(f.trainer), SendNotificationRequest{
		Title:        "Mixed",
		Message:      "msg",
		RecipientIDs: []uint{f.student.ID, f.hod.ID},
	})
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	// Nothing was persisted for the allowed half.
	ns, err := f.Notifications.ListVisible(f.student.ID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, ns)

	n, err := f.Notifications.Send(f.actor(f.trainer), SendNotificationRequest{
		Title:        "Just you",
		Message:      "msg",
		RecipientIDs: []uint{f.student.ID},
	})
	require.NoError(t, err)
	assert.Nil(t, n.TargetRole)
}

func TestSendValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.Notifications.Send(f.actor(f.admin), SendNotificationRequest{Title: "t", Message: "m"})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = f.Notifications.Send(f.actor(f.admin), SendNotificationRequest{
		Title: "t", Message: "m",
		TargetRole:   rolePtr(model.Student),
		RecipientIDs: []uint{f.student.ID},
	})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = f.Notifications.Send(f.actor(f.admin), SendNotificationRequest{
		Title: "t", Message: "m",
		RecipientIDs: []uint{99999},
	})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestRoleBroadcastSkipsDeactivatedUsers(t *testing.T) {
	f := newFixture(t)
	dormant := f.createUser(t, "dormant", model.Student)
	dormant.IsActivated = false
	require.NoError(t, f.db.Save(dormant).Error)

	_, err := f.Notifications.Send(f.actor(f.admin), SendNotificationRequest{
		Title:      "To students",
		Message:    "msg",
		TargetRole: rolePtr(model.Student),
	})
	require.NoError(t, err)

	active, err := f.Notifications.ListVisible(f.student.ID, time.Now())
	require.NoError(t, err)
	assert.Len(t, active, 1)

	none, err := f.Notifications.ListVisible(dormant.ID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVisibilityWindow(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	later := now.Add(time.Hour)
	muchLater := now.Add(2 * time.Hour)

	_, err := f.Notifications.Send(f.actor(f.admin), SendNotificationRequest{
		Title:       "Scheduled",
		Message:     "visible later",
		TargetRole:  rolePtr(model.Student),
		ActiveFrom:  &later,
		ActiveUntil: &muchLater,
	})
	require.NoError(t, err)

	ns, err := f.Notifications.ListVisible(f.student.ID, now)
	require.NoError(t, err)
	assert.Empty(t, ns, "not visible before active_from")

	ns, err = f.Notifications.ListVisible(f.student.ID, later.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, ns, 1, "visible inside the window")

	ns, err = f.Notifications.ListVisible(f.student.ID, muchLater.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, ns, "expired after active_until")

	// A window that ends before it starts is rejected up front.
	_, err = f.Notifications.Send(f.actor(f.admin), SendNotificationRequest{
		Title: "t", Message: "m",
		TargetRole:  rolePtr(model.Student),
		ActiveFrom:  &muchLater,
		ActiveUntil: &later,
	})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestDeactivateHidesImmediately(t *testing.T) {
	f := newFixture(t)

	n, err := f.Notifications.Send(f.actor(f.hod), SendNotificationRequest{
		Title:      "Retractable",
		Message:    "msg",
		TargetRole: rolePtr(model.Trainer),
	})
	require.NoError(t, err)

	// Only the sender or an Admin may retract.
	err = f.Notifications.Deactivate(f.actor(f.trainer), n.ID)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	require.NoError(t, f.Notifications.Deactivate(f.actor(f.hod), n.ID))

	ns, err := f.Notifications.ListVisible(f.trainer.ID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	f := newFixture(t)

	n, err := f.Notifications.Send(f.actor(f.admin), SendNotificationRequest{
		Title:      "Read me",
		Message:    "msg",
		TargetRole: rolePtr(model.Student),
	})
	require.NoError(t, err)

	count, err := f.Notifications.UnreadCount(f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, f.Notifications.MarkRead(f.student.ID, n.ID))

	count, err = f.Notifications.UnreadCount(f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
