package creature

// Template is the static content row shared by every spawn of an entry.
type Template struct {
	Entry          uint32
	Name           string
	AIName         string
	ScriptName     string
	MovementType   MovementType
	Guard          bool
	Totem          bool
	Civilian       bool
	ReactState     ReactState
	WanderDistance float64
	Waypoints      []Position
}

// Spawn is the runtime state of a single creature instance.
type Spawn struct {
	GUID       GUID
	Entry      uint32
	Pet        bool
	Controlled bool
	Charmed    bool
	Owner      GUID
	Victim     GUID
	// Health is a percentage; zero is treated as full health.
	Health float64
	Home   Position
	// MovementType overrides the template default when set.
	MovementType MovementType
}

// Snapshot joins a template with a spawn and implements Creature.
type Snapshot struct {
	tmpl  Template
	spawn Spawn
}

var _ Creature = (*Snapshot)(nil)

// NewSnapshot joins tmpl and spawn. The spawn entry is forced to the template's.
func NewSnapshot(tmpl Template, spawn Spawn) *Snapshot {
	spawn.Entry = tmpl.Entry
	waypoints := make([]Position, len(tmpl.Waypoints))
	copy(waypoints, tmpl.Waypoints)
	tmpl.Waypoints = waypoints
	return &Snapshot{tmpl: tmpl, spawn: spawn}
}

func (s *Snapshot) GUID() GUID             { return s.spawn.GUID }
func (s *Snapshot) Entry() uint32          { return s.tmpl.Entry }
func (s *Snapshot) Name() string           { return s.tmpl.Name }
func (s *Snapshot) IsPet() bool            { return s.spawn.Pet }
func (s *Snapshot) IsControlled() bool     { return s.spawn.Pet && s.spawn.Controlled }
func (s *Snapshot) IsCharmed() bool        { return s.spawn.Charmed }
func (s *Snapshot) IsTotem() bool          { return s.tmpl.Totem }
func (s *Snapshot) IsGuard() bool          { return s.tmpl.Guard }
func (s *Snapshot) IsCivilian() bool       { return s.tmpl.Civilian }
func (s *Snapshot) ReactState() ReactState { return s.tmpl.ReactState }
func (s *Snapshot) AIName() string         { return s.tmpl.AIName }
func (s *Snapshot) ScriptName() string     { return s.tmpl.ScriptName }
func (s *Snapshot) OwnerGUID() GUID        { return s.spawn.Owner }
func (s *Snapshot) Victim() GUID           { return s.spawn.Victim }
func (s *Snapshot) Home() Position         { return s.spawn.Home }
func (s *Snapshot) WanderDistance() float64 {
	return s.tmpl.WanderDistance
}

// DefaultMovementType returns the spawn override, the template value, or idle.
func (s *Snapshot) DefaultMovementType() MovementType {
	switch {
	case s.spawn.MovementType != "":
		return s.spawn.MovementType
	case s.tmpl.MovementType != "":
		return s.tmpl.MovementType
	default:
		return IdleMovement
	}
}

// HealthPercent returns the spawn health, 100 when unset.
func (s *Snapshot) HealthPercent() float64 {
	if s.spawn.Health <= 0 {
		return 100
	}
	return s.spawn.Health
}

// Waypoints returns a copy of the template path.
func (s *Snapshot) Waypoints() []Position {
	out := make([]Position, len(s.tmpl.Waypoints))
	copy(out, s.tmpl.Waypoints)
	return out
}

// Template returns the template the snapshot was built from.
func (s *Snapshot) Template() Template { return s.tmpl }

// Spawn returns the spawn the snapshot was built from.
func (s *Snapshot) Spawn() Spawn { return s.spawn }
