package bus

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_KeepsArrivalOrderUnderBurst(t *testing.T) {
	handler := signalHandler()
	registrar, ok := handler.(dbus.SignalRegistrar)
	require.True(t, ok, "handler must accept signal channels")

	c := &dbusConn{signals: make(chan *dbus.Signal, signalBuffer), kind: Session}
	registrar.AddSignal(c.signals)

	// Several times the channel capacity, delivered before anything reads
	const burst = signalBuffer * 8
	for i := 1; i <= burst; i++ {
		handler.DeliverSignal("org.example.Iface", "org.example.Iface.Tick", &dbus.Signal{
			Path:     "/org/example",
			Name:     "org.example.Iface.Tick",
			Sequence: dbus.Sequence(i),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 1; i <= burst; i++ {
		msg, err := c.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(i), msg.Sequence, "message %d out of order", i)
	}
}

func TestNext_ClosedChannelIsEOF(t *testing.T) {
	c := &dbusConn{signals: make(chan *dbus.Signal), kind: Session}
	close(c.signals)

	_, err := c.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestFromSignal(t *testing.T) {
	tests := []struct {
		name       string
		sig        *dbus.Signal
		wantIface  string
		wantMember string
		wantBody   bool
	}{
		{
			name: "properties changed",
			sig: &dbus.Signal{
				Sender:   ":1.42",
				Path:     "/org/bluez/hci0/dev_00",
				Name:     "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body:     []interface{}{"org.bluez.Device1"},
				Sequence: 7,
			},
			wantIface:  "org.freedesktop.DBus.Properties",
			wantMember: "PropertiesChanged",
			wantBody:   true,
		},
		{
			name:       "nested interface name",
			sig:        &dbus.Signal{Path: "/org/freedesktop/systemd1", Name: "org.freedesktop.systemd1.Manager.UnitNew"},
			wantIface:  "org.freedesktop.systemd1.Manager",
			wantMember: "UnitNew",
		},
		{
			name:       "no interface",
			sig:        &dbus.Signal{Path: "/", Name: "Bare"},
			wantMember: "Bare",
		},
		{
			name:       "empty body slice",
			sig:        &dbus.Signal{Path: "/", Name: "x.Y", Body: []interface{}{}},
			wantIface:  "x",
			wantMember: "Y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := fromSignal(tt.sig)
			assert.Equal(t, TypeSignal, msg.Type)
			assert.Equal(t, string(tt.sig.Path), msg.Path)
			assert.Equal(t, tt.sig.Sender, msg.Sender)
			assert.Equal(t, uint64(tt.sig.Sequence), msg.Sequence)
			assert.Equal(t, tt.wantIface, msg.Interface)
			assert.Equal(t, tt.wantMember, msg.Member)
			if tt.wantBody {
				assert.NotNil(t, msg.Body)
			} else {
				assert.Nil(t, msg.Body)
			}
		})
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name, in, iface, member string
	}{
		{"nested interface", "org.freedesktop.systemd1.Manager.UnitNew", "org.freedesktop.systemd1.Manager", "UnitNew"},
		{"single part interface", "x.Y", "x", "Y"},
		{"no interface", "Bare", "", "Bare"},
		{"trailing dot", "org.example.", "org.example", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iface, member := splitName(tt.in)
			assert.Equal(t, tt.iface, iface)
			assert.Equal(t, tt.member, member)
		})
	}
}
