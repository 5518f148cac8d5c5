// Package session holds the per-node session state machine: authentication,
// role, course selection and the document collections bound to them.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
	"github.com/yigit/nnpgpt/internal/pkg/ids"
	"github.com/yigit/nnpgpt/internal/pkg/logger"
)

// Options configures a Controller. Zero values fall back to sensible defaults.
type Options struct {
	Catalog         CourseCatalog
	Purgers         []Purger
	Events          EventSink
	ResearchSeed    []models.FileMetadata
	OverlayDuration time.Duration
	// Scheduler overrides time.AfterFunc for the overlay timer
	Scheduler Scheduler
	// NewID overrides the document id generator
	NewID func() string
	Now   func() time.Time
}

// Controller owns one logical session. All mutations go through its methods and
// are serialised by mu; readers only ever get deep copies.
type Controller struct {
	id string

	catalog CourseCatalog
	purgers []Purger
	events  EventSink
	seed    []models.FileMetadata
	newID   func() string
	now     func() time.Time
	log     zerolog.Logger

	mu             sync.Mutex
	authenticated  bool
	role           models.Role
	selectedCourse *models.Course
	activeTab      models.Tab
	vault          []models.FileMetadata
	research       []models.FileMetadata
	usage          models.UsageStats
	selectedFileID string
	epoch          uint64
	lastActive     time.Time
	overlay        overlay
}

// NewController creates a session in the unauthenticated state
func NewController(id string, opts Options) *Controller {
	c := &Controller{
		id:      id,
		catalog: opts.Catalog,
		purgers: opts.Purgers,
		events:  opts.Events,
		seed:    cloneFiles(opts.ResearchSeed),
		newID:   opts.NewID,
		now:     opts.Now,
		log:     logger.Component("session").With().Str("session_id", id).Logger(),
	}
	if c.events == nil {
		c.events = discardSink{}
	}
	if c.newID == nil {
		c.newID = ids.New
	}
	if c.now == nil {
		c.now = time.Now
	}
	schedule := opts.Scheduler
	if schedule == nil {
		schedule = afterFunc
	}
	c.overlay = overlay{duration: opts.OverlayDuration, schedule: schedule}

	c.activeTab = models.TabChat
	c.usage = models.FreshUsage()
	c.vault = []models.FileMetadata{}
	c.research = []models.FileMetadata{}
	c.lastActive = c.now()
	return c
}

// ID returns the node id
func (c *Controller) ID() string {
	return c.id
}

// ResetSession wipes every per-session field except authentication and role,
// purges transient caches and raises the transition overlay.
func (c *Controller) ResetSession(ctx context.Context) {
	c.mu.Lock()
	c.resetLocked()
	ev := c.eventLocked(EventReset)
	c.mu.Unlock()

	c.purge(ctx)
	c.events.Publish(ev)
}

// resetLocked clears the data fields and raises the overlay. Caller holds mu.
func (c *Controller) resetLocked() {
	c.selectedFileID = ""
	c.research = []models.FileMetadata{}
	c.vault = []models.FileMetadata{}
	c.selectedCourse = nil
	c.usage = models.FreshUsage()
	c.activeTab = models.TabChat
	c.lastActive = c.now()
	c.overlay.raise(c.overlayDone)
}

func (c *Controller) overlayDone(gen uint64) {
	c.mu.Lock()
	lowered := c.overlay.lower(gen)
	var ev Event
	if lowered {
		ev = c.eventLocked(EventOverlayCleared)
	}
	c.mu.Unlock()

	if lowered {
		c.events.Publish(ev)
	}
}

func (c *Controller) purge(ctx context.Context) {
	for _, p := range c.purgers {
		if err := p.Purge(ctx, c.id); err != nil {
			c.log.Warn().Err(err).Msg("Failed to purge transient session data")
		}
	}
}

// Authenticate starts a fresh session for role and returns its epoch. The wipe
// always runs before any new field is set. When preselected is given its vault
// is fetched first, so a catalog failure leaves the previous session untouched.
func (c *Controller) Authenticate(ctx context.Context, role models.Role, preselected *models.Course) (uint64, error) {
	if !role.Valid() {
		return 0, apperrors.ErrInvalidRole
	}

	var vault []models.FileMetadata
	if preselected != nil {
		var err error
		if vault, err = c.fetchVault(ctx, preselected.ID); err != nil {
			return 0, err
		}
	}

	c.mu.Lock()
	c.resetLocked()
	c.authenticated = true
	c.role = role
	c.epoch++
	if role == models.RoleStudent {
		c.research = cloneFiles(c.seed)
		c.usage = models.FreshUsage()
	}
	if preselected != nil {
		course := *preselected
		c.selectedCourse = &course
		c.vault = vault
	}
	ev := c.eventLocked(EventAuthenticated)
	c.mu.Unlock()

	c.purge(ctx)
	c.log.Info().Str("role", string(role)).Uint64("epoch", ev.Epoch).Str("course_id", ev.CourseID).Msg("Session authenticated")
	c.events.Publish(ev)
	return ev.Epoch, nil
}

// Logout wipes the session and returns it to the unauthenticated state.
// Calling it on an unauthenticated session only re-runs the wipe.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	wasAuthenticated := c.authenticated
	c.resetLocked()
	c.authenticated = false
	c.epoch++
	ev := c.eventLocked(EventLoggedOut)
	c.mu.Unlock()

	c.purge(ctx)
	if wasAuthenticated {
		c.log.Info().Uint64("epoch", ev.Epoch).Msg("Session logged out")
	}
	c.events.Publish(ev)
}

// SelectCourse binds the session to course, or unbinds it when course is nil.
// The vault is replaced wholesale and the file selection is always cleared.
func (c *Controller) SelectCourse(ctx context.Context, course *models.Course) error {
	c.mu.Lock()
	if !c.authenticated {
		c.mu.Unlock()
		return apperrors.ErrNotAuthenticated
	}
	epoch := c.epoch
	c.mu.Unlock()

	vault := []models.FileMetadata{}
	if course != nil {
		var err error
		if vault, err = c.fetchVault(ctx, course.ID); err != nil {
			return err
		}
	}

	c.mu.Lock()
	if c.epoch != epoch {
		// a login or logout ran while the vault was loading
		c.mu.Unlock()
		return apperrors.NewCustomError(apperrors.ErrConflict, "session was replaced while selecting the course")
	}
	if course != nil {
		selected := *course
		c.selectedCourse = &selected
	} else {
		c.selectedCourse = nil
	}
	c.vault = vault
	c.selectedFileID = ""
	c.lastActive = c.now()
	ev := c.eventLocked(EventCourseSelected)
	c.mu.Unlock()

	c.events.Publish(ev)
	return nil
}

func (c *Controller) fetchVault(ctx context.Context, courseID string) ([]models.FileMetadata, error) {
	if c.catalog == nil {
		return []models.FileMetadata{}, nil
	}
	vault, err := c.catalog.VaultFor(ctx, courseID)
	if err != nil {
		c.log.Error().Err(err).Str("course_id", courseID).Msg("Failed to load course vault")
		return nil, fmt.Errorf("failed to load vault for course %s: %w", courseID, err)
	}
	return cloneFiles(vault), nil
}

// UploadFiles turns raw uploads into document records. Student uploads are
// prepended to research in batch order, everything else is appended to the vault.
// Unauthenticated sessions and empty batches are ignored.
func (c *Controller) UploadFiles(files []models.UploadedFile) []models.FileMetadata {
	return c.upload(files, nil)
}

// UploadFilesAt is UploadFiles for a batch prepared during session epoch. The
// batch is dropped when a login or logout has replaced that session since.
func (c *Controller) UploadFilesAt(epoch uint64, files []models.UploadedFile) []models.FileMetadata {
	return c.upload(files, &epoch)
}

func (c *Controller) upload(files []models.UploadedFile, epoch *uint64) []models.FileMetadata {
	if len(files) == 0 {
		return nil
	}

	c.mu.Lock()
	if !c.authenticated || (epoch != nil && *epoch != c.epoch) {
		c.mu.Unlock()
		return nil
	}
	now := c.now()
	created := make([]models.FileMetadata, 0, len(files))
	for _, f := range files {
		created = append(created, buildUpload(c.newID(), f, c.role, c.selectedCourse, now))
	}
	if c.role == models.RoleStudent {
		c.research = append(cloneFiles(created), c.research...)
	} else {
		c.vault = append(c.vault, cloneFiles(created)...)
	}
	c.lastActive = now
	ev := c.eventLocked(EventFilesUploaded)
	ev.Files = cloneFiles(created)
	c.mu.Unlock()

	c.events.Publish(ev)
	return created
}

// DeleteFile removes a vault entry. It reports false when no entry matched.
func (c *Controller) DeleteFile(id string) bool {
	c.mu.Lock()
	i, ok := findFile(c.vault, id)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.vault = append(c.vault[:i:i], c.vault[i+1:]...)
	if c.selectedFileID == id {
		c.selectedFileID = ""
	}
	c.lastActive = c.now()
	ev := c.eventLocked(EventFileDeleted)
	ev.FileID = id
	c.mu.Unlock()

	c.events.Publish(ev)
	return true
}

// UpdateFile merges patch into a vault entry. The id never changes.
func (c *Controller) UpdateFile(id string, patch models.FilePatch) (models.FileMetadata, bool) {
	c.mu.Lock()
	i, ok := findFile(c.vault, id)
	if !ok {
		c.mu.Unlock()
		return models.FileMetadata{}, false
	}
	updated := patch.Apply(c.vault[i].Clone())
	updated.ID = id
	c.vault[i] = updated
	c.lastActive = c.now()
	ev := c.eventLocked(EventFileUpdated)
	ev.FileID = id
	c.mu.Unlock()

	c.events.Publish(ev)
	return updated.Clone(), true
}

// RecordUsage adds increment to the used counter. Going over the total is allowed.
// An unauthenticated session keeps its fresh usage and reports ok=false.
func (c *Controller) RecordUsage(increment int) (models.UsageStats, bool) {
	return c.recordUsage(increment, nil)
}

// RecordUsageAt is RecordUsage for work done during session epoch. Nothing is
// recorded once a login or logout has replaced that session.
func (c *Controller) RecordUsageAt(epoch uint64, increment int) (models.UsageStats, bool) {
	return c.recordUsage(increment, &epoch)
}

func (c *Controller) recordUsage(increment int, epoch *uint64) (models.UsageStats, bool) {
	c.mu.Lock()
	if !c.authenticated || (epoch != nil && *epoch != c.epoch) {
		usage := c.usage
		c.mu.Unlock()
		return usage, false
	}
	c.usage.Used += increment
	usage := c.usage
	c.lastActive = c.now()
	ev := c.eventLocked(EventUsageRecorded)
	ev.Increment = increment
	c.mu.Unlock()

	c.events.Publish(ev)
	return usage, true
}

// SelectFile points the preview at a vault or research entry. Unknown ids
// leave nothing selected and report false.
func (c *Controller) SelectFile(id string) bool {
	c.mu.Lock()
	_, inVault := findFile(c.vault, id)
	_, inResearch := findFile(c.research, id)
	found := id != "" && (inVault || inResearch)
	if found {
		c.selectedFileID = id
	} else {
		c.selectedFileID = ""
	}
	c.lastActive = c.now()
	ev := c.eventLocked(EventSelection)
	ev.FileID = c.selectedFileID
	c.mu.Unlock()

	c.events.Publish(ev)
	return found
}

// DeselectFile clears the preview selection
func (c *Controller) DeselectFile() {
	c.SelectFile("")
}

// SetActiveTab switches the workspace tab of an authenticated session
func (c *Controller) SetActiveTab(tab models.Tab) error {
	if !tab.Valid() {
		return apperrors.ErrInvalidTab
	}

	c.mu.Lock()
	if !c.authenticated {
		c.mu.Unlock()
		return apperrors.ErrNotAuthenticated
	}
	c.activeTab = tab
	c.lastActive = c.now()
	ev := c.eventLocked(EventTabChanged)
	c.mu.Unlock()

	c.events.Publish(ev)
	return nil
}

// Snapshot returns a deep copy of the session
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		ID:            c.id,
		Authenticated: c.authenticated,
		Role:          c.role,
		ActiveTab:     c.activeTab,
		Vault:         cloneFiles(c.vault),
		Research:      cloneFiles(c.research),
		Usage:         c.usage,
		Transitioning: c.overlay.active,
		State:         c.stateLocked(),
		Epoch:         c.epoch,
	}
	snap.View = ViewFor(snap.State)
	if c.selectedCourse != nil {
		course := *c.selectedCourse
		snap.SelectedCourse = &course
	}
	if f, ok := c.selectedFileLocked(); ok {
		snap.SelectedFile = &f
	}
	return snap
}

// State returns the current machine state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// View returns the screen the current state may render
func (c *Controller) View() View {
	return ViewFor(c.State())
}

// IsAuthenticated reports whether a login is in effect
func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// IsTransitioning reports whether the wipe overlay is raised
func (c *Controller) IsTransitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay.active
}

// Epoch increases on every login and logout; tokens carry it to detect stale sessions
func (c *Controller) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// SelectedFile returns the file the preview pane points at
func (c *Controller) SelectedFile() (models.FileMetadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedFileLocked()
}

// LastActive is the time of the last mutation, used by the idle sweeper
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Close stops the overlay timer
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay.stop()
}

func (c *Controller) stateLocked() State {
	return deriveState(c.authenticated, c.role, c.selectedCourse)
}

func (c *Controller) selectedFileLocked() (models.FileMetadata, bool) {
	if c.selectedFileID == "" {
		return models.FileMetadata{}, false
	}
	if i, ok := findFile(c.vault, c.selectedFileID); ok {
		return c.vault[i].Clone(), true
	}
	if i, ok := findFile(c.research, c.selectedFileID); ok {
		return c.research[i].Clone(), true
	}
	return models.FileMetadata{}, false
}

func (c *Controller) eventLocked(t EventType) Event {
	ev := Event{
		Type:      t,
		SessionID: c.id,
		Epoch:     c.epoch,
		At:        c.now(),
		Role:      c.role,
	}
	if c.selectedCourse != nil {
		ev.CourseID = c.selectedCourse.ID
	}
	return ev
}
