package host

import "github.com/parthenon-lang/verifyc/internal/sid"

// SlotKind enumerates the Slot variants of spec §3.
type SlotKind int

const (
	SlotVariable SlotKind = iota
	SlotMethod
	SlotVirtual
	SlotAlias
	SlotPackageImport
	SlotFieldDestructuringResolution
)

// SlotFlags holds the boolean modifiers spec §3 lists for a Slot.
type SlotFlags struct {
	ReadOnly   bool
	Static     bool
	Final      bool
	Native     bool
	Abstract   bool
	Overriding bool
	External   bool
}

// QName is a namespace-qualified name (spec §3: "QName (namespace+local)").
type QName struct {
	Namespace string
	Local     string
}

// Slot is the host's Slot entity.
type Slot struct {
	id       sid.ID
	Kind     SlotKind
	Name     QName
	Parent   sid.ID // owning Scope or Type; zero if top-level
	Type     sid.ID
	Flags    SlotFlags
	Metadata []string
	ASDoc    string

	// Variable: an optional attached constant value when ReadOnly and
	// the initializer is a literal (spec §3: "A Variable with read_only
	// and a literal var_constant is a compile-time constant").
	ConstantValue sid.ID
	HasConstant   bool

	// Method: at most one activation scope, at most one FunctionType
	// signature.
	Activation sid.ID
	HasActivation bool

	// Virtual: an attached getter and/or setter Method slot.
	Getter    sid.ID
	HasGetter bool
	Setter    sid.ID
	HasSetter bool

	// Alias: the slot this alias resolves to.
	AliasOf sid.ID

	// PackageImport: the imported Package.
	ImportedPackage sid.ID
}

func (s *Slot) ID() sid.ID { return s.id }

func (h *Host) newSlot(s *Slot) *Slot {
	id := h.slots.Next()
	s.id = id
	h.slotTable[id] = s
	return s
}

func (h *Host) Slot(id sid.ID) *Slot { return h.slotTable[id] }

func (h *Host) NewVariableSlot(name QName, typ sid.ID) *Slot {
	return h.newSlot(&Slot{Kind: SlotVariable, Name: name, Type: typ})
}

func (h *Host) NewMethodSlot(name QName, sig sid.ID) *Slot {
	return h.newSlot(&Slot{Kind: SlotMethod, Name: name, Type: sig})
}

func (h *Host) NewVirtualSlot(name QName) *Slot {
	return h.newSlot(&Slot{Kind: SlotVirtual, Name: name})
}

func (h *Host) NewAliasSlot(name QName, of sid.ID) *Slot {
	return h.newSlot(&Slot{Kind: SlotAlias, Name: name, AliasOf: of})
}

func (h *Host) NewPackageImportSlot(name QName, pkg sid.ID) *Slot {
	return h.newSlot(&Slot{Kind: SlotPackageImport, Name: name, ImportedPackage: pkg})
}

func (h *Host) NewFieldDestructuringResolutionSlot(name QName) *Slot {
	return h.newSlot(&Slot{Kind: SlotFieldDestructuringResolution, Name: name})
}

// IsCompileTimeConstant reports whether s is a read-only Variable carrying
// an attached constant value (spec §3).
func (s *Slot) IsCompileTimeConstant() bool {
	return s.Kind == SlotVariable && s.Flags.ReadOnly && s.HasConstant
}

// SetConstant attaches a constant value to a read-only Variable slot.
// Idempotent: setting the same value twice is a no-op; the driver must
// not call this after the slot already carries a different value.
func (s *Slot) SetConstant(v sid.ID) {
	s.ConstantValue = v
	s.HasConstant = true
}

// AttachGetter/AttachSetter merge a getter or setter Method slot into a
// Virtual slot — spec §9: "A getter and setter defined in either order
// under the same name are merged into a shared VirtualSlot." Both orders
// are symmetric: whichever arrives first just sets its half.
func (s *Slot) AttachGetter(m sid.ID) { s.Getter = m; s.HasGetter = true }
func (s *Slot) AttachSetter(m sid.ID) { s.Setter = m; s.HasSetter = true }
