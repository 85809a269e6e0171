package session

import (
	"fmt"

	"github.com/ironsheep/imspect/internal/imaging"
)

// ID identifies an entry within a Registry.
type ID uint32

// ThresholdSettings holds the per-entry threshold control. The zero value
// disables thresholding.
type ThresholdSettings struct {
	Kind   imaging.ThresholdKind
	Cutoff uint8
}

// Origin records how an entry was derived from another one.
type Origin struct {
	// Parent is the ID the source entry had when the derivation ran. The
	// parent may since have been removed and its ID reused.
	Parent ID

	// Operation is the conversion name, or "extract_channel_<n>".
	Operation string
}

// Entry is one inspected image together with its view state.
type Entry struct {
	ID    ID
	Image imaging.Buffer

	// Threshold applies only when Image is *imaging.OneChannel.
	Threshold ThresholdSettings

	// PendingRedraw is set whenever the displayed pixels may have changed.
	PendingRedraw bool

	// MarkedForRemoval schedules the entry for deletion by the next Sweep.
	MarkedForRemoval bool

	// Origin is nil for entries of the initial batch.
	Origin *Origin
}

// Registry owns the entries of a session in display order.
type Registry struct {
	entries []*Entry
}

// NewRegistry creates a registry holding images in order, with IDs 0..n-1.
func NewRegistry(images ...imaging.Buffer) *Registry {
	r := &Registry{entries: make([]*Entry, 0, len(images))}
	for _, img := range images {
		r.entries = append(r.entries, newEntry(r.AllocateID(), img, nil))
	}
	return r
}

func newEntry(id ID, img imaging.Buffer, origin *Origin) *Entry {
	return &Entry{
		ID:            id,
		Image:         img,
		PendingRedraw: true,
		Origin:        origin,
	}
}

// AllocateID returns the smallest ID not held by any live entry.
//
// Entries flagged for removal but not yet swept still hold their IDs.
func (r *Registry) AllocateID() ID {
	used := make(map[ID]struct{}, len(r.entries))
	for _, e := range r.entries {
		used[e.ID] = struct{}{}
	}
	// Among len+1 candidates at least one is free.
	for id := ID(0); ; id++ {
		if _, ok := used[id]; !ok {
			return id
		}
	}
}

// Add appends a new entry with default settings.
//
// Returns ErrDuplicateID if id is already held by a live entry.
func (r *Registry) Add(img imaging.Buffer, id ID) error {
	if r.index(id) >= 0 {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	r.entries = append(r.entries, newEntry(id, img, nil))
	return nil
}

// Get returns the live entry with the given id. The entry may be modified
// in place until the next Sweep.
func (r *Registry) Get(id ID) (*Entry, error) {
	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r.entries[i], nil
}

func (r *Registry) index(id ID) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// IDs returns the live IDs in display order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.ID
	}
	return ids
}

// Entries returns a snapshot of the live entries in display order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = *e
	}
	return out
}

// MarkForRemoval flags the entry for the next Sweep. Absent IDs are ignored.
func (r *Registry) MarkForRemoval(id ID) {
	if e, err := r.Get(id); err == nil {
		e.MarkedForRemoval = true
	}
}

// Sweep deletes every entry flagged for removal and returns their IDs.
// Surviving entries keep their relative order.
func (r *Registry) Sweep() []ID {
	var removed []ID
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.MarkedForRemoval {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(r.entries); i++ {
		r.entries[i] = nil
	}
	r.entries = kept
	return removed
}

// SetThreshold replaces the threshold settings of an entry and flags it for
// redraw.
//
// Returns ErrThresholdUnsupported if settings enable thresholding on an
// entry whose image is not single-channel.
func (r *Registry) SetThreshold(id ID, settings ThresholdSettings) error {
	e, err := r.Get(id)
	if err != nil {
		return err
	}
	if _, ok := e.Image.(*imaging.OneChannel); !ok && settings.Kind != imaging.ThresholdNone {
		return fmt.Errorf("%w: entry %d has %d channels", ErrThresholdUnsupported, id, e.Image.Channels())
	}
	e.Threshold = settings
	e.PendingRedraw = true
	return nil
}

// Display returns the image of an entry as it should be shown, with the
// threshold applied to one-channel images.
func (r *Registry) Display(id ID) (imaging.Buffer, error) {
	e, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if gray, ok := e.Image.(*imaging.OneChannel); ok {
		return imaging.Threshold(gray, e.Threshold.Kind, e.Threshold.Cutoff), nil
	}
	return e.Image, nil
}

// MarkDrawn clears the redraw flag of an entry.
func (r *Registry) MarkDrawn(id ID) error {
	e, err := r.Get(id)
	if err != nil {
		return err
	}
	e.PendingRedraw = false
	return nil
}

// Convert applies conversion c to the image of entry id and appends the
// result as a new entry.
//
// The boolean is false, and no entry is added, when c is not defined for
// the entry's channel count. An error is returned only when id is absent.
func (r *Registry) Convert(id ID, c imaging.Conversion) (ID, bool, error) {
	e, err := r.Get(id)
	if err != nil {
		return 0, false, err
	}
	img, ok := imaging.Apply(c, e.Image)
	if !ok {
		return 0, false, nil
	}
	return r.derive(img, &Origin{Parent: id, Operation: string(c)}), true, nil
}

// ExtractChannel appends channel n of a three-channel entry as a new
// one-channel entry. The boolean is false for one-channel entries and for
// channel indexes outside 0-2.
func (r *Registry) ExtractChannel(id ID, n int) (ID, bool, error) {
	e, err := r.Get(id)
	if err != nil {
		return 0, false, err
	}
	img, ok := imaging.ExtractChannel(e.Image, n)
	if !ok {
		return 0, false, nil
	}
	return r.derive(img, &Origin{Parent: id, Operation: fmt.Sprintf("extract_channel_%d", n)}), true, nil
}

func (r *Registry) derive(img imaging.Buffer, origin *Origin) ID {
	id := r.AllocateID()
	r.entries = append(r.entries, newEntry(id, img, origin))
	return id
}
