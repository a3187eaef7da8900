package servagri

import (
	"context"
	"fmt"
	"io"
)

// ConfirmFunc gates destructive actions. Returning false aborts the
// action silently. A nil ConfirmFunc means no gate (useful in tests).
type ConfirmFunc func(prompt string) bool

// FilterAll is the status filter value that bypasses status filtering.
const FilterAll = "all"

// NewsForm holds the admin form fields for a news item.
type NewsForm struct {
	Title    string
	Date     string
	Image    string
	Excerpt  string
	Content  string
	Category string
	Status   string
	Featured bool
}

// NewsController owns form state, validation, and create/edit mode for
// the news admin screen. It talks to the store through the API client and
// keeps the mirror cache in step as a display fallback.
type NewsController struct {
	client  *Client
	mirror  *Mirror
	confirm ConfirmFunc

	Form         NewsForm
	StatusFilter string
	Search       string

	items   []NewsItem
	editing *NewsItem
}

// NewNewsController creates a controller in create mode. The mirror is
// pruned once per session start and, if it has contents, seeds the item
// list until the first successful Refresh. mirror may be nil.
func NewNewsController(client *Client, mirror *Mirror, keep int, confirm ConfirmFunc) *NewsController {
	c := &NewsController{
		client:       client,
		mirror:       mirror,
		confirm:      confirm,
		StatusFilter: FilterAll,
	}
	c.Form.Status = StatusDraft
	if mirror != nil {
		_ = mirror.PruneNews(keep)
		if items, err := mirror.LoadNews(); err == nil && len(items) > 0 {
			c.items = items
		}
	}
	return c
}

// Refresh reloads the item list from the store and mirrors it
// (best-effort; a full mirror never fails the refresh).
func (c *NewsController) Refresh(ctx context.Context) error {
	items, err := c.client.ListNews(ctx)
	if err != nil {
		return err
	}
	c.items = items
	c.syncMirror()
	return nil
}

// Items returns the full fetched collection, unfiltered.
func (c *NewsController) Items() []NewsItem { return c.items }

// Editing reports whether the controller is in edit mode.
func (c *NewsController) Editing() bool { return c.editing != nil }

// BeginEdit enters edit mode for item, loading its fields into the form.
// The full record, version token included, is retained for the eventual
// full-record PUT.
func (c *NewsController) BeginEdit(item NewsItem) {
	c.editing = &item
	c.Form = NewsForm{
		Title:    item.Title,
		Date:     item.Date,
		Image:    item.Image,
		Excerpt:  item.Excerpt,
		Content:  item.FullContent,
		Category: item.Category,
		Status:   item.Status,
		Featured: item.IsFeatured,
	}
}

// CancelEdit leaves edit mode and clears the form.
func (c *NewsController) CancelEdit() {
	c.editing = nil
	c.resetForm()
}

// AttachImage normalizes a selected image file into the form.
func (c *NewsController) AttachImage(file io.Reader) error {
	s, err := NormalizeImage(file)
	if err != nil {
		return err
	}
	c.Form.Image = s
	return nil
}

// Submit validates the form, reporting the first unmet condition without
// touching the store; on success it dispatches create or update depending
// on mode, then resets to create mode and returns the stored row.
func (c *NewsController) Submit(ctx context.Context) (NewsItem, error) {
	if err := c.validateForm(); err != nil {
		return NewsItem{}, err
	}
	item := NewsItem{
		Title:       c.Form.Title,
		Date:        c.Form.Date,
		Excerpt:     c.Form.Excerpt,
		FullContent: c.Form.Content,
		Image:       c.Form.Image,
		Category:    c.Form.Category,
		Status:      c.Form.Status,
		IsFeatured:  c.Form.Featured,
	}

	var saved NewsItem
	var err error
	if c.editing != nil {
		item.ID = c.editing.ID
		item.Version = c.editing.Version
		saved, err = c.client.UpdateNews(ctx, item)
	} else {
		saved, err = c.client.CreateNews(ctx, item)
	}
	if err != nil {
		return NewsItem{}, err
	}

	c.applySaved(saved)
	c.editing = nil
	c.resetForm()
	return saved, nil
}

// ChangeStatus republishes the item with only the status altered. The
// update is a full-record PUT carrying the in-memory version token, so a
// stale copy fails with a conflict instead of silently reverting fields.
func (c *NewsController) ChangeStatus(ctx context.Context, id int, status string) error {
	cur, ok := c.find(id)
	if !ok {
		return fmt.Errorf("news %d: %w", id, ErrNotFound)
	}
	cur.Status = status
	saved, err := c.client.UpdateNews(ctx, cur)
	if err != nil {
		return err
	}
	c.applySaved(saved)
	return nil
}

// Delete removes an item after passing the confirmation gate. A declined
// confirmation aborts without error.
func (c *NewsController) Delete(ctx context.Context, id int) error {
	if c.confirm != nil && !c.confirm("Delete this news item?") {
		return nil
	}
	if err := c.client.DeleteNews(ctx, id); err != nil {
		return err
	}
	kept := c.items[:0:0]
	for _, it := range c.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.syncMirror()
	return nil
}

// Visible applies the status filter (FilterAll bypasses it) and a
// case-insensitive substring match on title and excerpt, then sorts by
// creation timestamp descending. Filtering runs over the full fetched
// collection.
func (c *NewsController) Visible() []NewsItem {
	var out []NewsItem
	for _, it := range c.items {
		if c.StatusFilter != FilterAll && it.Status != c.StatusFilter {
			continue
		}
		if c.Search != "" && !containsFold(it.Title, c.Search) && !containsFold(it.Excerpt, c.Search) {
			continue
		}
		out = append(out, it)
	}
	sortByCreatedAt(out, func(n NewsItem) string { return n.CreatedAt })
	return out
}

func (c *NewsController) validateForm() error {
	switch {
	case c.Form.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case c.Form.Date == "":
		return fmt.Errorf("%w: date is required", ErrValidation)
	case c.Form.Excerpt == "":
		return fmt.Errorf("%w: excerpt is required", ErrValidation)
	case c.Form.Content == "":
		return fmt.Errorf("%w: content is required", ErrValidation)
	case c.Form.Category == "":
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if c.editing == nil && c.Form.Image == "" {
		return fmt.Errorf("%w: an image is required", ErrValidation)
	}
	return nil
}

func (c *NewsController) resetForm() {
	c.Form = NewsForm{Status: StatusDraft}
}

func (c *NewsController) find(id int) (NewsItem, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return NewsItem{}, false
}

func (c *NewsController) applySaved(saved NewsItem) {
	for i, it := range c.items {
		if it.ID == saved.ID {
			c.items[i] = saved
			c.syncMirror()
			return
		}
	}
	c.items = append(c.items, saved)
	c.syncMirror()
}

func (c *NewsController) syncMirror() {
	if c.mirror != nil {
		_ = c.mirror.SaveNews(c.items)
	}
}

// ProjectForm holds the admin form fields for a project showcase.
type ProjectForm struct {
	Title    string
	Date     string
	Excerpt  string
	Content  string
	Images   []string
	Status   string
	Featured bool
}

// ProjectController is the project counterpart of NewsController. The
// form carries an ordered gallery instead of a single image, filled
// through batch normalization.
type ProjectController struct {
	client  *Client
	mirror  *Mirror
	confirm ConfirmFunc

	Form         ProjectForm
	StatusFilter string
	Search       string

	items   []ProjectItem
	editing *ProjectItem
}

// NewProjectController creates a controller in create mode, pruning and
// loading the mirror the same way as NewNewsController.
func NewProjectController(client *Client, mirror *Mirror, keep int, confirm ConfirmFunc) *ProjectController {
	c := &ProjectController{
		client:       client,
		mirror:       mirror,
		confirm:      confirm,
		StatusFilter: FilterAll,
	}
	c.Form.Status = StatusDraft
	if mirror != nil {
		_ = mirror.PruneProjects(keep)
		if items, err := mirror.LoadProjects(); err == nil && len(items) > 0 {
			c.items = items
		}
	}
	return c
}

// Refresh reloads the project list from the store and mirrors it.
func (c *ProjectController) Refresh(ctx context.Context) error {
	items, err := c.client.ListProjects(ctx)
	if err != nil {
		return err
	}
	c.items = items
	c.syncMirror()
	return nil
}

// Items returns the full fetched collection, unfiltered.
func (c *ProjectController) Items() []ProjectItem { return c.items }

// Editing reports whether the controller is in edit mode.
func (c *ProjectController) Editing() bool { return c.editing != nil }

// BeginEdit enters edit mode for item, loading its fields into the form.
func (c *ProjectController) BeginEdit(item ProjectItem) {
	c.editing = &item
	c.Form = ProjectForm{
		Title:    item.Title,
		Date:     item.Date,
		Excerpt:  item.Excerpt,
		Content:  item.FullContent,
		Images:   append([]string(nil), item.Images...),
		Status:   item.Status,
		Featured: item.IsFeatured,
	}
}

// CancelEdit leaves edit mode and clears the form.
func (c *ProjectController) CancelEdit() {
	c.editing = nil
	c.resetForm()
}

// AddImages normalizes a batch of selected files into the form gallery.
// The whole batch is rejected, leaving the gallery unchanged, if it would
// push the gallery past the image-count cap or the cumulative size ceiling.
func (c *ProjectController) AddImages(files ...io.Reader) error {
	normalized, err := NormalizeBatch(files, len(c.Form.Images))
	if err != nil {
		return err
	}
	c.Form.Images = append(c.Form.Images, normalized...)
	return nil
}

// RemoveImage drops the i-th gallery image from the form.
func (c *ProjectController) RemoveImage(i int) {
	if i < 0 || i >= len(c.Form.Images) {
		return
	}
	c.Form.Images = append(c.Form.Images[:i], c.Form.Images[i+1:]...)
}

// Submit validates the form and dispatches create or update by mode,
// then resets to create mode and returns the stored row.
func (c *ProjectController) Submit(ctx context.Context) (ProjectItem, error) {
	if err := c.validateForm(); err != nil {
		return ProjectItem{}, err
	}
	item := ProjectItem{
		Title:       c.Form.Title,
		Date:        c.Form.Date,
		Excerpt:     c.Form.Excerpt,
		FullContent: c.Form.Content,
		Images:      append([]string(nil), c.Form.Images...),
		Status:      c.Form.Status,
		IsFeatured:  c.Form.Featured,
	}

	var saved ProjectItem
	var err error
	if c.editing != nil {
		item.ID = c.editing.ID
		item.Version = c.editing.Version
		saved, err = c.client.UpdateProject(ctx, item)
	} else {
		saved, err = c.client.CreateProject(ctx, item)
	}
	if err != nil {
		return ProjectItem{}, err
	}

	c.applySaved(saved)
	c.editing = nil
	c.resetForm()
	return saved, nil
}

// ChangeStatus republishes the project with only the status altered,
// carrying the in-memory version token.
func (c *ProjectController) ChangeStatus(ctx context.Context, id int, status string) error {
	cur, ok := c.find(id)
	if !ok {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	cur.Status = status
	saved, err := c.client.UpdateProject(ctx, cur)
	if err != nil {
		return err
	}
	c.applySaved(saved)
	return nil
}

// Delete removes a project after passing the confirmation gate.
func (c *ProjectController) Delete(ctx context.Context, id int) error {
	if c.confirm != nil && !c.confirm("Delete this project?") {
		return nil
	}
	if err := c.client.DeleteProject(ctx, id); err != nil {
		return err
	}
	kept := c.items[:0:0]
	for _, it := range c.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.syncMirror()
	return nil
}

// Visible applies the status filter and a case-insensitive substring
// match on title, sorted by creation timestamp descending.
func (c *ProjectController) Visible() []ProjectItem {
	var out []ProjectItem
	for _, it := range c.items {
		if c.StatusFilter != FilterAll && it.Status != c.StatusFilter {
			continue
		}
		if c.Search != "" && !containsFold(it.Title, c.Search) {
			continue
		}
		out = append(out, it)
	}
	sortByCreatedAt(out, func(p ProjectItem) string { return p.CreatedAt })
	return out
}

func (c *ProjectController) validateForm() error {
	switch {
	case c.Form.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case c.Form.Date == "":
		return fmt.Errorf("%w: date is required", ErrValidation)
	case c.Form.Excerpt == "":
		return fmt.Errorf("%w: excerpt is required", ErrValidation)
	}
	if c.editing == nil && len(c.Form.Images) == 0 {
		return fmt.Errorf("%w: at least one image is required", ErrValidation)
	}
	return nil
}

func (c *ProjectController) resetForm() {
	c.Form = ProjectForm{Status: StatusDraft}
}

func (c *ProjectController) find(id int) (ProjectItem, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return ProjectItem{}, false
}

func (c *ProjectController) applySaved(saved ProjectItem) {
	for i, it := range c.items {
		if it.ID == saved.ID {
			c.items[i] = saved
			c.syncMirror()
			return
		}
	}
	c.items = append(c.items, saved)
	c.syncMirror()
}

func (c *ProjectController) syncMirror() {
	if c.mirror != nil {
		_ = c.mirror.SaveProjects(c.items)
	}
}
