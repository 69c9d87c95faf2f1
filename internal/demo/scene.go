package demo

import (
	"time"

	"github.com/zeusync/worldcore/internal/core/world"
)

const (
	ButtonInterval = 100 * time.Millisecond
	SensorInterval = 250 * time.Millisecond
)

// Scene is the demo house: a front door opened by a panel button through a
// relay, a garage door opened by a posted press, and a yard sensor reporting
// to a global alarm.
type Scene struct {
	World *world.World

	FrontDoor    *Door
	GarageDoor   *Door
	PanelButton  *Button
	GarageButton *Button
	Relay        *Relay
	Sensor       *Sensor
	Alarm        *Alarm
}

// Summary is the printable state of a scene.
type Summary struct {
	World        string        `json:"world" yaml:"world"`
	Ticks        uint64        `json:"ticks" yaml:"ticks"`
	Time         time.Duration `json:"time" yaml:"time"`
	FrontOpen    bool          `json:"front_open" yaml:"front_open"`
	FrontToggle  int           `json:"front_toggles" yaml:"front_toggles"`
	GarageOpen   bool          `json:"garage_open" yaml:"garage_open"`
	GarageToggle int           `json:"garage_toggles" yaml:"garage_toggles"`
	RelaySeen    int           `json:"relay_seen" yaml:"relay_seen"`
	Alarms       int           `json:"alarms" yaml:"alarms"`
	Sent         uint64        `json:"sent" yaml:"sent"`
	Posted       uint64        `json:"posted" yaml:"posted"`
	CacheMisses  uint64        `json:"cache_misses" yaml:"cache_misses"`
}

// Build populates w with the demo scene and schedules its update functions.
func Build(w *world.World) (*Scene, error) {
	s := &Scene{
		World:        w,
		FrontDoor:    NewDoor(),
		GarageDoor:   NewDoor(),
		PanelButton:  &Button{},
		GarageButton: &Button{},
		Relay:        NewRelay(),
		Sensor:       &Sensor{Zone: "yard"},
		Alarm:        NewAlarm(),
	}

	house := w.CreateObject("house")
	hall, err := w.CreateChild(house, "hall")
	if err != nil {
		return nil, err
	}
	panel, err := w.CreateChild(hall, "panel")
	if err != nil {
		return nil, err
	}
	garage := w.CreateObject("garage")
	garagePanel, err := w.CreateChild(garage, "garage_panel")
	if err != nil {
		return nil, err
	}
	yard := w.CreateObject("yard")
	security := w.CreateObject("security")

	attach := []struct {
		obj *world.GameObject
		c   world.Component
	}{
		{hall, s.FrontDoor},
		{panel, s.Relay},
		{panel, s.PanelButton},
		{garage, s.GarageDoor},
		{garagePanel, s.GarageButton},
		{yard, s.Sensor},
		{security, s.Alarm},
	}
	for _, a := range attach {
		if _, err := w.AttachComponent(a.obj, a.c); err != nil {
			return nil, err
		}
	}

	err = w.AddUpdateFunctionToSchedule(world.UpdateFunctionDesc{
		Name:     "buttons",
		Interval: ButtonInterval,
		Func: func(world.UpdateContext) {
			s.PanelButton.Press()
			s.GarageButton.PressLater()
		},
	})
	if err != nil {
		return nil, err
	}
	err = w.AddUpdateFunctionToSchedule(world.UpdateFunctionDesc{
		Name:               "sensors",
		Interval:           SensorInterval,
		OnlyWhenSimulating: true,
		Func: func(world.UpdateContext) {
			s.Sensor.Report()
		},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) Summary() Summary {
	m := s.World.Router().Metrics()
	return Summary{
		World:        s.World.Name(),
		Ticks:        s.World.Ticks(),
		Time:         s.World.Time(),
		FrontOpen:    s.FrontDoor.Open,
		FrontToggle:  s.FrontDoor.Activations,
		GarageOpen:   s.GarageDoor.Open,
		GarageToggle: s.GarageDoor.Activations,
		RelaySeen:    s.Relay.Seen,
		Alarms:       s.Alarm.Triggered,
		Sent:         m.Sent,
		Posted:       m.Posted,
		CacheMisses:  m.CacheMisses,
	}
}
