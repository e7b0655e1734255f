package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/coffeepad/internal/catalog"
	"github.com/hammamikhairi/coffeepad/internal/config"
	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/wizard"
	"github.com/hammamikhairi/coffeepad/internal/youtube"
)

// wizardView drives a wizard.Wizard. Text screens share one input whose
// value is copied into the form on every key, so the next-gate always
// reflects what is on screen.
type wizardView struct {
	w          *wizard.Wizard
	input      textinput.Model
	grind      int // cursor on the grind screen
	stepCursor int
	sheet      *sheetView // non-nil while the step picker is open
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 200
	ti.Width = 50
	return ti
}

func (m *Model) openWizard(w *wizard.Wizard) {
	v := &wizardView{w: w, input: newTextInput()}
	for i, g := range wizard.GrindOptions {
		if g == w.Grind {
			v.grind = i
		}
	}
	v.enterScreen()
	m.wiz = v
	m.screen = screenWizard
}

// field returns the form field bound to the text input on the current
// screen, or nil for screens without one.
func (v *wizardView) field() *string {
	switch v.w.Screen() {
	case wizard.ScreenName:
		return &v.w.Name
	case wizard.ScreenDose:
		return &v.w.Dose
	case wizard.ScreenTemp:
		return &v.w.WaterTemp
	case wizard.ScreenVolume:
		return &v.w.Volume
	case wizard.ScreenComment:
		return &v.w.Comment
	default:
		return nil
	}
}

// enterScreen prepares the input for the current screen.
func (v *wizardView) enterScreen() {
	v.input.Blur()
	v.input.SetValue("")
	if f := v.field(); f != nil {
		v.input.SetValue(*f)
		v.input.CursorEnd()
		v.input.Focus()
	}
	if v.w.Screen() == wizard.ScreenIcon {
		v.input.Placeholder = "path to an image, empty to keep"
		v.input.Focus()
	} else {
		v.input.Placeholder = ""
	}
}

func (m Model) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := m.wiz
	if v.sheet != nil {
		step, done := v.sheet.update(msg)
		if done {
			if step != nil {
				v.w.AddStep(*step)
				v.stepCursor = len(v.w.Steps) - 1
			}
			v.sheet = nil
		}
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case isKey(key, "esc"):
		if !v.w.Back() {
			m.wiz = nil
			m.screen = screenList
			return m, nil
		}
		v.enterScreen()
		return m, nil

	case isKey(key, "enter"):
		return m.wizardEnter()
	}

	switch v.w.Screen() {
	case wizard.ScreenGrind:
		switch {
		case isKey(key, "up", "k") && v.grind > 0:
			v.grind--
		case isKey(key, "down", "j") && v.grind < len(wizard.GrindOptions)-1:
			v.grind++
		}
		v.w.Grind = wizard.GrindOptions[v.grind]

	case wizard.ScreenSteps:
		n := len(v.w.Steps)
		switch {
		case isKey(key, "a", "+"):
			v.sheet = newSheetView()
		case isKey(key, "up", "k") && v.stepCursor > 0:
			v.stepCursor--
		case isKey(key, "down", "j") && v.stepCursor < n-1:
			v.stepCursor++
		case isKey(key, "K", "shift+up") && v.stepCursor > 0:
			v.w.MoveStep(v.stepCursor, v.stepCursor-1)
			v.stepCursor--
		case isKey(key, "J", "shift+down") && v.stepCursor < n-1:
			v.w.MoveStep(v.stepCursor, v.stepCursor+1)
			v.stepCursor++
		case isKey(key, "x", "d", "delete"):
			v.w.RemoveStep(v.stepCursor)
			if v.stepCursor >= len(v.w.Steps) {
				v.stepCursor = max(0, len(v.w.Steps)-1)
			}
		}

	default:
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		if f := v.field(); f != nil {
			*f = v.input.Value()
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) wizardEnter() (tea.Model, tea.Cmd) {
	v := m.wiz
	switch v.w.Screen() {
	case wizard.ScreenIcon:
		if path := strings.TrimSpace(v.input.Value()); path != "" {
			icon, err := loadIcon(path, m.cfg.iconSize)
			if err != nil {
				m.log.Warn("loading icon %s: %v", path, err)
				m.flash = "Could not read that image."
				return m, nil
			}
			v.w.IconData = icon
		}
	case wizard.ScreenConfirm:
		saved, err := m.svc.Save(m.ctx, v.w)
		if err != nil {
			m.log.Error("saving method: %v", err)
			m.flash = "Could not save the method."
			return m, nil
		}
		m.wiz = nil
		m.reload()
		m.detail = detailView{method: saved}
		m.screen = screenDetail
		return m, nil
	}
	if v.w.Next() {
		v.enterScreen()
	}
	return m, nil
}

// loadIcon reads an image file and letterboxes it into a square JPEG.
func loadIcon(path string, size int) ([]byte, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	img, _, err := youtube.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return youtube.EncodeIcon(youtube.Letterbox(img, size))
}

func (m Model) viewWizard() string {
	v := m.wiz
	if v.sheet != nil {
		return v.sheet.view()
	}
	w := v.w
	pos, total := w.Position()

	var b strings.Builder
	heading := "New brew method"
	if w.Editing() {
		heading = "Edit brew method"
	}
	fmt.Fprintf(&b, "\n  %s  %s\n", titleStyle.Render(heading), secondaryStyle.Render(fmt.Sprintf("%d/%d", pos, total)))
	b.WriteString("  " + progressDots(pos, total) + "\n\n")
	b.WriteString("  " + stepStyle.Render(w.Screen().Title()) + "\n\n")

	switch w.Screen() {
	case wizard.ScreenGrind:
		for i, g := range wizard.GrindOptions {
			if i == v.grind {
				b.WriteString("  " + selectedStyle.Render("▸ "+g) + "\n")
			} else {
				b.WriteString("    " + primaryStyle.Render(g) + "\n")
			}
		}
	case wizard.ScreenSteps:
		if len(w.Steps) == 0 {
			b.WriteString(secondaryStyle.Render("  No steps yet. Press a to add one.") + "\n")
		}
		b.WriteString(renderSteps(w.Steps, v.stepCursor))
	case wizard.ScreenIcon:
		if len(w.IconData) > 0 {
			b.WriteString(secondaryStyle.Render(fmt.Sprintf("  icon set (%d KB)", len(w.IconData)/1024)) + "\n")
		}
		b.WriteString("  " + v.input.View() + "\n")
	case wizard.ScreenConfirm:
		fmt.Fprintf(&b, "  %s\n  %s\n", titleStyle.Render(w.Name), primaryStyle.Render(w.Comment))
		fmt.Fprintf(&b, "  %s\n\n", secondaryStyle.Render(fmt.Sprintf("%sg · %s · %s°C · %sml",
			w.Dose, w.Grind, w.WaterTemp, orDash(w.Volume))))
		b.WriteString(renderSteps(w.Steps, -1))
	default:
		b.WriteString("  " + v.input.View() + "\n")
	}

	next := "next"
	if w.Screen() == wizard.ScreenConfirm {
		next = "save"
	}
	hints := []string{keyHint("enter", next, w.CanProceed()), keyHint("esc", "back", true)}
	if w.Screen() == wizard.ScreenSteps {
		hasSel := len(w.Steps) > 0
		hints = append(hints,
			keyHint("a", "add", true),
			keyHint("x", "remove", hasSel),
			keyHint("K/J", "move", len(w.Steps) > 1),
		)
	}
	b.WriteString("\n  " + strings.Join(hints, sepStyle.Render("  ")))
	return b.String()
}

func progressDots(pos, total int) string {
	var b strings.Builder
	for i := 1; i <= total; i++ {
		if i <= pos {
			b.WriteString(selectedStyle.Render("●"))
		} else {
			b.WriteString(disabledStyle.Render("○"))
		}
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "–"
	}
	return s
}

// ── Step picker sheet ────────────────────────────────────────────

// sheetView walks a catalog.Selection: kind, then technique, then the
// numeric fields the kind needs.
type sheetView struct {
	sel    *catalog.Selection
	defs   []catalog.Definition
	cursor int
	inputs []textinput.Model // weight/time/comment, only those that apply
	fields []*string
	focus  int
}

func newSheetView() *sheetView {
	return &sheetView{sel: catalog.NewSelection(), defs: catalog.All()}
}

// update handles one message. done is true when the sheet should close;
// step is the added step, nil when cancelled.
func (s *sheetView) update(msg tea.Msg) (step *domain.BrewStep, done bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	if isKey(key, "esc") {
		if !s.sel.Back() {
			return nil, true
		}
		s.cursor = 0
		s.inputs = nil
		return nil, false
	}

	switch s.sel.Stage() {
	case catalog.StagePickKind:
		switch {
		case isKey(key, "up", "k") && s.cursor > 0:
			s.cursor--
		case isKey(key, "down", "j") && s.cursor < len(s.defs)-1:
			s.cursor++
		case isKey(key, "enter"):
			if st, added := s.sel.Choose(s.defs[s.cursor].Kind); added {
				return &st, true
			}
			s.cursor = 0
			s.prepareDetail()
		}

	case catalog.StagePickSubOption:
		def, _ := s.sel.Definition()
		switch {
		case isKey(key, "up", "k") && s.cursor > 0:
			s.cursor--
		case isKey(key, "down", "j") && s.cursor < len(def.SubOptions)-1:
			s.cursor++
		case isKey(key, "enter"):
			s.sel.ChooseSubOption(def.SubOptions[s.cursor])
			s.prepareDetail()
		}

	case catalog.StageDetail:
		switch {
		case isKey(key, "tab", "down"):
			s.setFocus((s.focus + 1) % len(s.inputs))
		case isKey(key, "shift+tab", "up"):
			s.setFocus((s.focus + len(s.inputs) - 1) % len(s.inputs))
		case isKey(key, "enter"):
			if st, ok := s.sel.Add(); ok {
				return &st, true
			}
		default:
			s.inputs[s.focus], _ = s.inputs[s.focus].Update(msg)
			*s.fields[s.focus] = s.inputs[s.focus].Value()
		}
	}
	return nil, false
}

// prepareDetail builds the inputs once the detail stage is reached.
func (s *sheetView) prepareDetail() {
	if s.sel.Stage() != catalog.StageDetail || s.inputs != nil {
		return
	}
	def, _ := s.sel.Definition()
	add := func(placeholder string, field *string) {
		ti := newTextInput()
		ti.Placeholder = placeholder
		s.inputs = append(s.inputs, ti)
		s.fields = append(s.fields, field)
	}
	s.fields = nil
	if def.NeedsWeight {
		add("grams", &s.sel.WeightText)
	}
	if def.NeedsTime {
		add("seconds", &s.sel.TimeText)
	}
	add("comment (optional)", &s.sel.Comment)
	s.setFocus(0)
}

func (s *sheetView) setFocus(i int) {
	for j := range s.inputs {
		if j == i {
			s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	s.focus = i
}

func (s *sheetView) view() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Add a step") + "\n\n")

	switch s.sel.Stage() {
	case catalog.StagePickKind:
		for i, d := range s.defs {
			b.WriteString(menuRow(d.Title, i == s.cursor))
		}
		b.WriteString("\n  " + keyHint("enter", "choose", true) + "  " + keyHint("esc", "close", true))

	case catalog.StagePickSubOption:
		def, _ := s.sel.Definition()
		b.WriteString("  " + secondaryStyle.Render(def.SubOptionPrompt) + "\n\n")
		for i, opt := range def.SubOptions {
			b.WriteString(menuRow(opt, i == s.cursor))
		}
		b.WriteString("\n  " + keyHint("enter", "choose", true) + "  " + keyHint("esc", "back", true))

	case catalog.StageDetail:
		def, _ := s.sel.Definition()
		label := def.Title
		if sub := s.sel.SubOption(); sub != "" {
			label += " · " + sub
		}
		b.WriteString("  " + stepStyle.Render(label) + "\n")
		if def.InputPrompt != "" {
			b.WriteString("  " + secondaryStyle.Render(def.InputPrompt) + "\n")
		}
		b.WriteString("\n")
		for _, in := range s.inputs {
			b.WriteString("  " + in.View() + "\n")
		}
		b.WriteString("\n  " + keyHint("enter", "add", s.sel.CanAdd()) + "  " +
			keyHint("tab", "field", len(s.inputs) > 1) + "  " + keyHint("esc", "back", true))
	}
	return b.String()
}

func menuRow(label string, selected bool) string {
	if selected {
		return "  " + selectedStyle.Render("▸ "+label) + "\n"
	}
	return "    " + primaryStyle.Render(label) + "\n"
}
