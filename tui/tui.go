package tui

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"skema/document"
	"skema/editor"
	"skema/geometry"
)

// Colors offered by the 'c' key, cycled per press. Stands in for the
// color-picker dialog.
var palette = []string{
	"#ffffff", "#ffeeaa", "#aaddff", "#aaffaa",
	"#ffaaaa", "#ddaaff", "#cccccc", "#333333",
}

// View is the interactive terminal view. It owns the viewport and the
// transient gesture state (panning, dragging); everything durable lives
// in the editor core.
type View struct {
	screen tcell.Screen
	ed     *editor.Editor
	vp     Viewport

	filename string
	status   string
	quit     bool

	// Gesture state for the current button-1 press.
	lastButtons tcell.ButtonMask
	panning     bool
	panCol      int
	panRow      int
	dragBlock   int
	dragCluster int
	dragOffset  geometry.Point // scene offset from entity origin to grab point

	paletteIndex int

	// Inline title editing, the minimal stand-in for the edit panel.
	editing    bool
	editBuffer []rune
}

// Run opens the terminal screen and drives the event loop until the
// user quits. The editor is mutated synchronously per event; rendering
// always sees a consistent scene.
func Run(ed *editor.Editor, filename string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	v := &View{
		screen:   screen,
		ed:       ed,
		vp:       NewViewport(),
		filename: filename,
	}
	for !v.quit {
		v.draw()
		v.handleEvent(screen.PollEvent())
	}
	return nil
}

func (v *View) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	}
}

func (v *View) handleKey(ev *tcell.EventKey) {
	if v.editing {
		v.handleEditKey(ev)
		return
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		if v.ed.ConnectionState() == editor.ConnPending {
			v.ed.CancelConnection()
			v.status = "connection cancelled"
			return
		}
		v.quit = true
		return
	case tcell.KeyLeft:
		v.vp.PanCells(-4, 0)
		return
	case tcell.KeyRight:
		v.vp.PanCells(4, 0)
		return
	case tcell.KeyUp:
		v.vp.PanCells(0, -2)
		return
	case tcell.KeyDown:
		v.vp.PanCells(0, 2)
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch ev.Rune() {
	case 'q':
		v.quit = true
	case 'a':
		b := v.ed.AddBlock()
		v.ed.SelectBlock(b.ID)
		v.status = fmt.Sprintf("added block %d", b.ID)
	case 'd':
		v.ed.DeleteSelected()
		v.status = "deleted selection"
	case 'g':
		c, err := v.ed.Group()
		if err != nil {
			v.status = err.Error()
		} else {
			v.ed.SelectCluster(c.ID)
			v.status = fmt.Sprintf("grouped into %q", c.Title)
		}
	case 'f':
		v.ed.FixCurrent()
		v.status = "fixed"
	case 'F':
		v.ed.UnfixCurrent()
		v.status = "unfixed"
	case 'c':
		v.paletteIndex = (v.paletteIndex + 1) % len(palette)
		if v.ed.ChangeColor(palette[v.paletteIndex]) {
			v.status = fmt.Sprintf("color %s", palette[v.paletteIndex])
		} else {
			v.status = "nothing selected to color"
		}
	case 'l':
		v.ed.SetEditLock(!v.ed.EditLocked())
		if v.ed.EditLocked() {
			v.status = "edit focus locked"
		} else {
			v.status = "edit focus unlocked"
		}
	case 'u':
		if v.ed.DetachClusterBlocks() {
			v.status = "detached cluster blocks"
		} else {
			v.status = "no cluster focused"
		}
	case 'i':
		attached := v.ed.AttachClusterBlocks()
		v.status = fmt.Sprintf("attached %d blocks", len(attached))
	case 'e':
		v.startTitleEdit()
	case 'y':
		v.yank()
	case 'p':
		v.paste()
	case 's':
		v.save()
	case 'n':
		v.ed.NewFile()
		v.status = "new diagram"
	case '+', '=':
		w, h := v.screen.Size()
		v.vp.Zoom(zoomFactor, w/2, h/2)
	case '-':
		w, h := v.screen.Size()
		v.vp.Zoom(1/zoomFactor, w/2, h/2)
	}
}

// startTitleEdit begins editing the focused object's title.
func (v *View) startTitleEdit() {
	var title string
	switch {
	case v.ed.Block(v.ed.CurrentBlock()) != nil:
		title = v.ed.Block(v.ed.CurrentBlock()).Title
	case v.ed.Cluster(v.ed.CurrentCluster()) != nil:
		title = v.ed.Cluster(v.ed.CurrentCluster()).Title
	default:
		v.status = "nothing focused to edit"
		return
	}
	v.editing = true
	v.editBuffer = []rune(title)
	v.status = "editing title (enter to apply, esc to abort)"
}

func (v *View) handleEditKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		v.editing = false
		v.status = "edit aborted"
	case tcell.KeyEnter:
		v.editing = false
		// Empty dimension text falls back to the current geometry, so
		// this applies the title alone.
		content := ""
		if b := v.ed.Block(v.ed.CurrentBlock()); b != nil {
			content = b.Content
		}
		v.ed.SaveEdit(string(v.editBuffer), content, "", "")
		v.status = "title applied"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(v.editBuffer) > 0 {
			v.editBuffer = v.editBuffer[:len(v.editBuffer)-1]
		}
	case tcell.KeyRune:
		v.editBuffer = append(v.editBuffer, ev.Rune())
	}
}

func (v *View) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	pt := v.vp.SceneAt(col, row)
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && v.lastButtons&tcell.Button1 == 0
	released := buttons&tcell.Button1 == 0 && v.lastButtons&tcell.Button1 != 0
	held := buttons&tcell.Button1 != 0 && v.lastButtons&tcell.Button1 != 0
	v.lastButtons = buttons

	switch {
	case buttons&tcell.WheelUp != 0:
		v.vp.Zoom(zoomFactor, col, row)
		return
	case buttons&tcell.WheelDown != 0:
		v.vp.Zoom(1/zoomFactor, col, row)
		return
	}

	switch {
	case pressed:
		v.pressAt(pt, col, row, ev.Modifiers())
	case held:
		v.dragTo(pt, col, row)
	case released:
		v.releaseAt(pt)
	}
}

// pressAt dispatches a button press by the scene-node variant under the
// pointer: anchors first, then blocks, then connection lines, then
// clusters, and finally the empty canvas, which starts a pan.
func (v *View) pressAt(pt geometry.Point, col, row int, mods tcell.ModMask) {
	if ref, ok := v.ed.AnchorAt(pt); ok {
		if v.ed.StartConnection(ref) {
			v.status = fmt.Sprintf("connecting from block %d %s", ref.Block, ref.Orientation)
		}
		return
	}
	if b := v.ed.BlockAt(pt); b != nil {
		if mods&tcell.ModShift != 0 {
			v.ed.ToggleSelectBlock(b.ID)
		} else {
			v.ed.SelectBlock(b.ID)
		}
		v.dragBlock = b.ID
		v.dragOffset = pt.Sub(v.ed.ScenePosition(b))
		return
	}
	if i := v.ed.ConnectionAt(pt); i >= 0 {
		v.ed.DeleteConnection(i)
		v.status = "connection deleted"
		return
	}
	if c := v.ed.ClusterAt(pt); c != nil {
		if mods&tcell.ModShift != 0 {
			v.ed.ToggleSelectCluster(c.ID)
		} else {
			v.ed.SelectCluster(c.ID)
		}
		v.dragCluster = c.ID
		v.dragOffset = pt.Sub(c.Position)
		return
	}
	v.panning = true
	v.panCol, v.panRow = col, row
	v.ed.ClearSelection()
}

func (v *View) dragTo(pt geometry.Point, col, row int) {
	switch {
	case v.ed.ConnectionState() == editor.ConnPending:
		v.ed.TrackConnection(pt)
	case v.dragBlock != 0:
		v.ed.MoveBlockToScene(v.dragBlock, pt.Sub(v.dragOffset))
	case v.dragCluster != 0:
		v.ed.MoveCluster(v.dragCluster, pt.Sub(v.dragOffset))
	case v.panning:
		v.vp.PanCells(v.panCol-col, v.panRow-row)
		v.panCol, v.panRow = col, row
	}
}

func (v *View) releaseAt(pt geometry.Point) {
	if v.ed.ConnectionState() == editor.ConnPending {
		if ref, ok := v.ed.AnchorAt(pt); ok {
			if v.ed.EndConnection(ref) {
				v.status = "connection created"
			} else {
				v.status = "connection cancelled"
			}
		} else {
			v.ed.CancelConnection()
			v.status = "connection cancelled"
		}
	}
	v.panning = false
	v.dragBlock = 0
	v.dragCluster = 0
}

// yank copies the focused block to the system clipboard as JSON, or the
// whole document when no block is focused.
func (v *View) yank() {
	if id := v.ed.CurrentBlock(); id != 0 {
		for _, rec := range v.ed.Snapshot().Blocks {
			if rec.ID == id {
				data, err := json.Marshal(rec)
				if err == nil {
					err = clipboard.WriteAll(string(data))
				}
				if err != nil {
					v.status = fmt.Sprintf("yank failed: %v", err)
				} else {
					v.status = fmt.Sprintf("yanked block %d", id)
				}
				return
			}
		}
	}
	data, err := document.Encode(v.ed.Snapshot())
	if err == nil {
		err = clipboard.WriteAll(string(data))
	}
	if err != nil {
		v.status = fmt.Sprintf("yank failed: %v", err)
		return
	}
	v.status = "yanked document"
}

// paste inserts a block record from the clipboard as a new block.
func (v *View) paste() {
	text, err := clipboard.ReadAll()
	if err != nil {
		v.status = fmt.Sprintf("paste failed: %v", err)
		return
	}
	var rec document.Block
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		v.status = "clipboard is not a block"
		return
	}
	b := v.ed.PasteBlock(rec)
	v.status = fmt.Sprintf("pasted block %d", b.ID)
}

func (v *View) save() {
	if v.filename == "" {
		v.status = "no filename; start with one to save"
		return
	}
	if err := v.ed.Save(v.filename); err != nil {
		v.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	v.status = fmt.Sprintf("saved %s", v.filename)
}
