// Package simhost is an in-memory simulation host. It implements ports.Host
// with the same sentinel conventions as the real engine and records every
// call, so tests and the demo CLI can drive vessel logic without an engine.
package simhost

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vesselbridge/sdk/domain/ports"
	"github.com/vesselbridge/sdk/wireformat"
)

// Native call names used by Calls.
const (
	CallCreateVessel        = "CreateVessel"
	CallAddMesh             = "AddMesh"
	CallAddExhaust          = "AddExhaust"
	CallCreateThruster      = "CreateThruster"
	CallCreatePropellant    = "CreatePropellantResource"
	CallCreateThrusterGroup = "CreateThrusterGroup"
	CallGetName             = "GetName"
	CallGetGroupLevel       = "GetThrusterGroupLevelByType"
	CallReadClassConfig     = "ReadClassConfig"
	CallDebugString         = "DebugString"
)

// Mesh is a mesh attached to a vessel.
type Mesh struct {
	Name   string
	Offset *wireformat.Vec3
}

// Thruster is a thruster defined on a vessel.
type Thruster struct {
	Pos, Dir   wireformat.Vec3
	MaxThrust  float64
	Isp        float64
	Propellant wireformat.Handle
	Exhausts   int
}

// Vessel is a snapshot of a simulated vessel.
type Vessel struct {
	Name        string
	Class       string
	Status      wireformat.VesselStatus
	Meshes      []Mesh
	Thrusters   []wireformat.Handle
	Propellants map[wireformat.Handle]float64
	Groups      map[int32][]wireformat.Handle
	Levels      map[int32]float64
	Handle      wireformat.Handle
}

type vessel struct {
	Vessel
	groupHandles map[int32]wireformat.Handle
}

// SpawnFunc is called after a vessel has been created through CreateVessel.
type SpawnFunc func(h wireformat.Handle, name, class string)

// DestroyFunc is called when a vessel is deleted.
type DestroyFunc func(h wireformat.Handle)

// Host is an in-memory ports.Host. It is safe for concurrent use, but
// callbacks (spawner, destroyer) are invoked without the lock held.
type Host struct {
	classes    map[string]wireformat.Handle
	configs    map[wireformat.Handle][]byte
	vessels    map[wireformat.Handle]*vessel
	thrusters  map[wireformat.Handle]*Thruster
	owners     map[wireformat.Handle]wireformat.Handle
	calls      map[string]int
	rejections map[string]bool
	spawn      SpawnFunc
	destroy    DestroyFunc
	debugLines []string
	next       wireformat.Handle
	mu         sync.Mutex
}

var _ ports.Host = (*Host)(nil)

// Option configures a Host.
type Option func(*Host)

// WithClass registers a vessel class and its configuration document.
// Vessels of unregistered classes cannot be created.
func WithClass(name string, config []byte) Option {
	return func(h *Host) {
		h.addClass(name, config)
	}
}

// WithSpawner sets the hook run after CreateVessel succeeds.
func WithSpawner(fn SpawnFunc) Option {
	return func(h *Host) {
		h.spawn = fn
	}
}

// WithDestroyer sets the hook run by DeleteVessel.
func WithDestroyer(fn DestroyFunc) Option {
	return func(h *Host) {
		h.destroy = fn
	}
}

// WithRejections makes the named native calls fail with their sentinel result.
func WithRejections(calls ...string) Option {
	return func(h *Host) {
		for _, c := range calls {
			h.rejections[c] = true
		}
	}
}

// New creates an empty simulated host.
func New(opts ...Option) *Host {
	h := &Host{
		classes:    make(map[string]wireformat.Handle),
		configs:    make(map[wireformat.Handle][]byte),
		vessels:    make(map[wireformat.Handle]*vessel),
		thrusters:  make(map[wireformat.Handle]*Thruster),
		owners:     make(map[wireformat.Handle]wireformat.Handle),
		calls:      make(map[string]int),
		rejections: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) newHandle() wireformat.Handle {
	h.next++
	return h.next
}

func (h *Host) addClass(name string, config []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cfg := h.newHandle()
	h.classes[name] = cfg
	h.configs[cfg] = append([]byte(nil), config...)
}

// ClassConfigHandle returns the handle of the configuration document of class.
func (h *Host) ClassConfigHandle(class string) (wireformat.Handle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cfg, ok := h.classes[class]
	return cfg, ok
}

// Classes returns the registered class names, sorted.
func (h *Host) Classes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.classes))
	for n := range h.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (h *Host) record(call string) bool {
	h.calls[call]++
	return !h.rejections[call]
}

func (h *Host) insertVessel(name, class string, status *wireformat.VesselStatus) wireformat.Handle {
	v := &vessel{
		Vessel: Vessel{
			Name:        name,
			Class:       class,
			Propellants: make(map[wireformat.Handle]float64),
			Groups:      make(map[int32][]wireformat.Handle),
			Levels:      make(map[int32]float64),
		},
		groupHandles: make(map[int32]wireformat.Handle),
	}
	if status != nil {
		v.Status = *status
	}
	v.Handle = h.newHandle()
	h.vessels[v.Handle] = v
	return v.Handle
}

// AddVessel places a vessel directly, bypassing CreateVessel and the spawner.
// It does not count as a native call.
func (h *Host) AddVessel(name, class string) wireformat.Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.insertVessel(name, class, nil)
}

// DeleteVessel removes a vessel and runs the destroyer hook.
func (h *Host) DeleteVessel(v wireformat.Handle) bool {
	h.mu.Lock()
	ves, ok := h.vessels[v]
	if ok {
		delete(h.vessels, v)
		for _, th := range ves.Thrusters {
			delete(h.thrusters, th)
			delete(h.owners, th)
		}
		for ph := range ves.Propellants {
			delete(h.owners, ph)
		}
		for _, gh := range ves.groupHandles {
			delete(h.owners, gh)
		}
	}
	destroy := h.destroy
	h.mu.Unlock()

	if ok && destroy != nil {
		destroy(v)
	}
	return ok
}

// CreateVessel implements ports.Host.
func (h *Host) CreateVessel(name, class *wireformat.FixedString, status *wireformat.VesselStatus) wireformat.Handle {
	h.mu.Lock()
	if !h.record(CallCreateVessel) {
		h.mu.Unlock()
		return 0
	}
	n, c := name.String(), class.String()
	if _, known := h.classes[c]; !known || n == "" || h.nameTaken(n) {
		h.mu.Unlock()
		return 0
	}
	v := h.insertVessel(n, c, status)
	spawn := h.spawn
	h.mu.Unlock()

	if spawn != nil {
		spawn(v, n, c)
	}
	return v
}

func (h *Host) nameTaken(name string) bool {
	for _, v := range h.vessels {
		if v.Name == name {
			return true
		}
	}
	return false
}

// AddMesh implements ports.Host.
func (h *Host) AddMesh(v wireformat.Handle, mesh *wireformat.FixedString, ofs *wireformat.Vec3) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.record(CallAddMesh) {
		return -1
	}
	ves, ok := h.vessels[v]
	if !ok || mesh.String() == "" {
		return -1
	}
	m := Mesh{Name: mesh.String()}
	if ofs != nil {
		o := *ofs
		m.Offset = &o
	}
	ves.Meshes = append(ves.Meshes, m)
	return int32(len(ves.Meshes) - 1)
}

// AddExhaust implements ports.Host.
func (h *Host) AddExhaust(v, th wireformat.Handle, lscale, wscale float64) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.record(CallAddExhaust) {
		return wireformat.InvalidIndex
	}
	t, ok := h.thrusters[th]
	if !ok || h.owners[th] != v {
		return wireformat.InvalidIndex
	}
	idx := uint32(t.Exhausts)
	t.Exhausts++
	return idx
}

// CreateThruster implements ports.Host.
func (h *Host) CreateThruster(v wireformat.Handle, pos, dir *wireformat.Vec3, maxThrust float64, ph wireformat.Handle, isp float64) wireformat.Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.record(CallCreateThruster) {
		return 0
	}
	ves, ok := h.vessels[v]
	if !ok {
		return 0
	}
	if ph != 0 {
		if _, tank := ves.Propellants[ph]; !tank {
			return 0
		}
	}
	th := h.newHandle()
	h.thrusters[th] = &Thruster{Pos: *pos, Dir: *dir, MaxThrust: maxThrust, Isp: isp, Propellant: ph}
	h.owners[th] = v
	ves.Thrusters = append(ves.Thrusters, th)
	return th
}

// CreatePropellantResource implements ports.Host.
func (h *Host) CreatePropellantResource(v wireformat.Handle, mass float64) wireformat.Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.record(CallCreatePropellant) {
		return 0
	}
	ves, ok := h.vessels[v]
	if !ok {
		return 0
	}
	ph := h.newHandle()
	ves.Propellants[ph] = mass
	h.owners[ph] = v
	return ph
}

// CreateThrusterGroup implements ports.Host. A second group of the same type
// replaces the first.
func (h *Host) CreateThrusterGroup(v wireformat.Handle, ths []wireformat.Handle, groupType int32) wireformat.Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.record(CallCreateThrusterGroup) {
		return 0
	}
	ves, ok := h.vessels[v]
	if !ok || len(ths) == 0 {
		return 0
	}
	for _, th := range ths {
		if _, known := h.thrusters[th]; !known || h.owners[th] != v {
			return 0
		}
	}
	if old, exists := ves.groupHandles[groupType]; exists {
		delete(h.owners, old)
	}
	gh := h.newHandle()
	ves.Groups[groupType] = append([]wireformat.Handle(nil), ths...)
	ves.groupHandles[groupType] = gh
	ves.Levels[groupType] = 0
	h.owners[gh] = v
	return gh
}

// GetName implements ports.Host.
func (h *Host) GetName(v wireformat.Handle, out *wireformat.FixedString) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.record(CallGetName) {
		return false
	}
	ves, ok := h.vessels[v]
	if !ok || out == nil {
		return false
	}
	*out = wireformat.FixedString{}
	copy(out[:wireformat.MaxStringLen], ves.Name)
	return true
}

// GetThrusterGroupLevelByType implements ports.Host.
func (h *Host) GetThrusterGroupLevelByType(v wireformat.Handle, groupType int32) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(CallGetGroupLevel)
	ves, ok := h.vessels[v]
	if !ok {
		return 0
	}
	return ves.Levels[groupType]
}

// SetThrusterGroupLevel sets the level of a group the vessel owns, as the
// pilot or autopilot would. It reports false if the vessel has no such group.
// The level is stored unclamped.
func (h *Host) SetThrusterGroupLevel(v wireformat.Handle, groupType int32, level float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	ves, ok := h.vessels[v]
	if !ok {
		return false
	}
	if _, exists := ves.groupHandles[groupType]; !exists {
		return false
	}
	ves.Levels[groupType] = level
	return true
}

// ReadClassConfig implements ports.Host.
func (h *Host) ReadClassConfig(cfg wireformat.Handle) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.record(CallReadClassConfig) {
		return nil, false
	}
	doc, ok := h.configs[cfg]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), doc...), true
}

// DebugString implements ports.Host.
func (h *Host) DebugString(text *wireformat.FixedString) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(CallDebugString)
	if text != nil {
		h.debugLines = append(h.debugLines, text.String())
	}
}

// Vessel returns a snapshot of vessel v.
func (h *Host) Vessel(v wireformat.Handle) (Vessel, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ves, ok := h.vessels[v]
	if !ok {
		return Vessel{}, false
	}
	snap := ves.Vessel
	snap.Meshes = append([]Mesh(nil), ves.Meshes...)
	snap.Thrusters = append([]wireformat.Handle(nil), ves.Thrusters...)
	snap.Propellants = make(map[wireformat.Handle]float64, len(ves.Propellants))
	for k, m := range ves.Propellants {
		snap.Propellants[k] = m
	}
	snap.Groups = make(map[int32][]wireformat.Handle, len(ves.Groups))
	for k, g := range ves.Groups {
		snap.Groups[k] = append([]wireformat.Handle(nil), g...)
	}
	snap.Levels = make(map[int32]float64, len(ves.Levels))
	for k, l := range ves.Levels {
		snap.Levels[k] = l
	}
	return snap, true
}

// VesselByName finds a vessel by its name.
func (h *Host) VesselByName(name string) (wireformat.Handle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for hv, v := range h.vessels {
		if v.Name == name {
			return hv, true
		}
	}
	return 0, false
}

// Thruster returns a copy of the thruster behind th.
func (h *Host) Thruster(th wireformat.Handle) (Thruster, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.thrusters[th]
	if !ok {
		return Thruster{}, false
	}
	return *t, true
}

// Calls returns how often the named native call was made.
func (h *Host) Calls(call string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[call]
}

// TotalCalls returns the number of native calls made so far.
func (h *Host) TotalCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.calls {
		n += c
	}
	return n
}

// DebugLines returns the lines written through DebugString.
func (h *Host) DebugLines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.debugLines...)
}

// String implements fmt.Stringer.
func (h *Host) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fmt.Sprintf("simhost(%d vessels, %d classes)", len(h.vessels), len(h.classes))
}
