package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetoe"
	"github.com/SeamusWaldron/cubetoe/internal/config"
	"github.com/SeamusWaldron/cubetoe/internal/recorder"
	"github.com/SeamusWaldron/cubetoe/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play tic-tac-toe on a shuffled puzzle",
	Long: `Start an interactive TUI game. The puzzle is shuffled, then players X and
O take turns marking cells on the faces. Each round applies one step of the
guided solve and scores every line of N marks on every face.

Keyboard shortcuts:
  s            - Shuffle and start a new game
  arrows/hjkl  - Move the cursor within a face
  tab          - Next face (shift+tab: previous)
  space/enter  - Place a mark for the current player
  g            - Go: apply one solve step and score the round
  a            - Toggle auto-play of the remaining rounds
  r            - Stop and reset to a solved puzzle
  q/Esc        - Quit`,
	RunE: runPlay,
}

// gameFlags are the per-game overrides shared by play and simulate.
type gameFlags struct {
	size     int
	shuffle  int
	duration time.Duration
	seed     int64
	noRecord bool
}

// resolve applies the flag overrides on top of the loaded config.
func (f gameFlags) resolve(c *config.Config) gameFlags {
	out := gameFlags{
		size:     c.Size,
		shuffle:  c.ShuffleMoves,
		duration: c.MoveDuration,
		seed:     c.Seed,
		noRecord: f.noRecord,
	}
	if f.size > 0 {
		out.size = f.size
	}
	if f.shuffle >= 0 {
		out.shuffle = f.shuffle
	}
	if f.duration >= 0 {
		out.duration = f.duration
	}
	if f.seed != 0 {
		out.seed = f.seed
	}
	return out
}

func (f gameFlags) options() []cubetoe.Option {
	opts := []cubetoe.Option{cubetoe.WithMoveDuration(f.duration)}
	if f.seed != 0 {
		opts = append(opts, cubetoe.WithSeed(uint64(f.seed)))
	}
	return opts
}

func addGameFlags(cmd *cobra.Command, f *gameFlags) {
	cmd.Flags().IntVar(&f.size, "size", 0, "Puzzle size N (default from config)")
	cmd.Flags().IntVar(&f.shuffle, "shuffle", -1, "Number of shuffle moves (default from config)")
	cmd.Flags().DurationVar(&f.duration, "duration", -1, "Animation time per move (default from config)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Shuffle seed (0 = random)")
	cmd.Flags().BoolVar(&f.noRecord, "no-record", false, "Do not write the game to the history database")
}

var playFlags gameFlags

func init() {
	rootCmd.AddCommand(playCmd)
	addGameFlags(playCmd, &playFlags)
}

// Messages
type tickMsg time.Time

type animStartMsg struct {
	move     cubetoe.Move
	layer    []cubetoe.Cubelet
	duration time.Duration
	done     func()
}

type animDoneMsg struct{ done func() }

type startedMsg struct {
	gen uint64
	err error
}

type roundMsg struct {
	gen uint64
	res cubetoe.RoundResult
	err error
}

// tuiAnimator forwards each rotation to the program, which times it and
// reports completion.
type tuiAnimator struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (a *tuiAnimator) setSender(send func(tea.Msg)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.send = send
}

func (a *tuiAnimator) AnimateLayer(layer []cubetoe.Cubelet, axis cubetoe.Axis, angle cubetoe.Angle, duration time.Duration, done func()) {
	a.mu.Lock()
	send := a.send
	a.mu.Unlock()

	if send == nil || len(layer) == 0 {
		done()
		return
	}

	move := cubetoe.Move{Axis: axis, Slice: layer[0].Position.Get(axis), Angle: angle}
	go send(animStartMsg{move: move, layer: layer, duration: duration, done: done})
}

// tokenBoard keeps the tokens the overlay asked to show.
type tokenBoard struct {
	mu     sync.Mutex
	tokens map[cubetoe.Cell]cubetoe.Player
	last   string
}

func newTokenBoard() *tokenBoard {
	return &tokenBoard{tokens: make(map[cubetoe.Cell]cubetoe.Player)}
}

func (b *tokenBoard) ShowToken(cell cubetoe.Cell, player cubetoe.Player, anchor cubetoe.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[cell] = player
	b.last = fmt.Sprintf("%s at %s %s", player, cell, anchor)
}

func (b *tokenBoard) ClearTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.tokens)
	b.last = ""
}

func (b *tokenBoard) at(cell cubetoe.Cell) cubetoe.Player {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens[cell]
}

func (b *tokenBoard) lastToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Model
type playModel struct {
	settings gameFlags
	session  *cubetoe.Session
	overlay  *cubetoe.Overlay
	game     *cubetoe.Game
	tokens   *tokenBoard
	rec      *recorder.Recorder // nil when not recording
	log      *logFile

	ctx    context.Context
	cancel context.CancelFunc

	// Async work
	gen  uint64 // bumped by reset; stale results are dropped
	busy bool
	auto bool

	// Display
	cursor   netCursor
	active   map[cubetoe.Vec3]bool
	turning  string
	games    int
	playing  bool
	last     *cubetoe.RoundResult
	result   *cubetoe.GameResult
	notice   string
	err      error
	quitting bool
}

func newPlayModel(settings gameFlags, anim *tuiAnimator, rec *recorder.Recorder, log *logFile) (*playModel, error) {
	tokens := newTokenBoard()

	opts := append(settings.options(), cubetoe.WithAnimator(anim), cubetoe.WithLogger(log.logger))
	session, err := cubetoe.NewSession(settings.size, opts...)
	if err != nil {
		return nil, err
	}
	overlay, err := cubetoe.NewOverlay(settings.size, tokens, log.logger)
	if err != nil {
		return nil, err
	}
	game, err := cubetoe.NewGame(session, overlay)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		rec.Attach(game)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &playModel{
		settings: settings,
		session:  session,
		overlay:  overlay,
		game:     game,
		tokens:   tokens,
		rec:      rec,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		cursor:   netCursor{face: cubetoe.FacePosZ},
		notice:   "Press 's' to shuffle and start",
	}, nil
}

func (m *playModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *playModel) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quit()
			return m, tea.Quit

		case "s":
			if m.busy {
				return m, nil
			}
			return m, m.startGame()

		case "g":
			if !m.canGo() {
				return m, nil
			}
			return m, m.goRound()

		case "a":
			m.auto = !m.auto
			if m.auto && m.canGo() {
				return m, m.goRound()
			}

		case "r":
			m.reset()

		case " ", "enter":
			m.place()

		case "up", "k":
			m.moveCursor(-1, 0)
		case "down", "j":
			m.moveCursor(1, 0)
		case "left", "h":
			m.moveCursor(0, -1)
		case "right", "l":
			m.moveCursor(0, 1)
		case "tab":
			m.cursor.face = (m.cursor.face + 1) % cubetoe.NumFaces
		case "shift+tab":
			m.cursor.face = (m.cursor.face + cubetoe.NumFaces - 1) % cubetoe.NumFaces
		}

	case tickMsg:
		return m, m.tickCmd()

	case animStartMsg:
		m.active = make(map[cubetoe.Vec3]bool, len(msg.layer))
		for _, cl := range msg.layer {
			m.active[cl.Position] = true
		}
		m.turning = msg.move.Notation()
		done := msg.done
		return m, tea.Tick(msg.duration, func(time.Time) tea.Msg {
			return animDoneMsg{done: done}
		})

	case animDoneMsg:
		msg.done()
		m.active = nil
		m.turning = ""

	case startedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.setErr(msg.err)
			return m, nil
		}
		m.playing = true
		m.notice = fmt.Sprintf("Shuffled %d moves. %s to place, then 'g'", m.settings.shuffle, m.overlay.Current())
		m.checkFinished()

	case roundMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.auto = false
			m.setErr(msg.err)
			return m, nil
		}
		res := msg.res
		m.last = &res
		m.notice = fmt.Sprintf("Round %d: %s scored X+%d O+%d. %s to play",
			res.Round, res.Move.Notation(), res.Lines.X, res.Lines.O, res.Next)
		m.checkFinished()
		if m.auto && m.canGo() {
			return m, m.goRound()
		}
	}

	return m, nil
}

func (m *playModel) canGo() bool {
	return m.playing && !m.busy && !m.game.Finished()
}

func (m *playModel) setErr(err error) {
	if errors.Is(err, cubetoe.ErrStopped) || errors.Is(err, cubetoe.ErrQueueDrained) || errors.Is(err, context.Canceled) {
		m.notice = "Stopped"
		return
	}
	m.err = err
}

func (m *playModel) checkFinished() {
	if !m.game.Finished() {
		return
	}
	res := m.game.Result()
	m.result = &res
	m.playing = false
	m.auto = false
}

func (m *playModel) startGame() tea.Cmd {
	m.busy = true
	m.err = nil
	m.last = nil
	m.result = nil
	m.games++
	m.notice = "Shuffling..."

	gen := m.gen
	ctx := m.ctx
	game := m.game
	rec := m.rec
	settings := m.settings
	first := m.games == 1

	return func() tea.Msg {
		if rec != nil {
			// Later games continue the seeded stream and cannot be replayed
			// from the seed alone.
			var seed *int64
			if settings.seed != 0 && first {
				s := settings.seed
				seed = &s
			}
			if _, err := rec.Begin(settings.size, settings.shuffle, seed, ""); err != nil {
				return startedMsg{gen: gen, err: err}
			}
		}
		return startedMsg{gen: gen, err: game.Start(ctx, settings.shuffle)}
	}
}

func (m *playModel) goRound() tea.Cmd {
	m.busy = true
	gen := m.gen
	ctx := m.ctx
	game := m.game
	return func() tea.Msg {
		res, err := game.Go(ctx)
		return roundMsg{gen: gen, res: res, err: err}
	}
}

func (m *playModel) place() {
	if !m.playing || m.game.Finished() {
		return
	}
	if !m.game.Place(m.cursor.pick(m.settings.size)) {
		m.notice = "Cell not available"
	}
}

func (m *playModel) moveCursor(dRow, dCol int) {
	n := m.settings.size
	m.cursor.row = (m.cursor.row + dRow + n) % n
	m.cursor.col = (m.cursor.col + dCol + n) % n
}

// reset stops any running work and returns to a solved puzzle. A game
// being recorded is closed as abandoned.
func (m *playModel) reset() {
	m.gen++
	m.busy = false
	m.auto = false
	m.playing = false
	m.last = nil
	m.result = nil
	m.err = nil
	m.abandon()

	m.overlay.Disable()
	m.overlay.ClearAll()
	if err := m.session.Reset(); err != nil {
		m.err = err
		return
	}
	m.notice = "Reset. Press 's' to shuffle and start"
}

func (m *playModel) abandon() {
	if m.rec == nil || m.rec.State() != recorder.StateRecording {
		return
	}
	scores := m.overlay.Scores()
	if err := m.rec.End(scores.X, scores.O, storage.OutcomeAbandoned); err != nil {
		m.log.logger.Warn("failed to close game", "error", err)
	}
}

func (m *playModel) quit() {
	m.quitting = true
	m.cancel()
	m.session.Stop()
	m.abandon()
}

func (m *playModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	n := m.settings.size
	b.WriteString(titleStyle.Render(fmt.Sprintf("cubetoe %dx%dx%d", n, n, n)))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("Game %d  |  %s", m.games, m.overlay.Phase().DisplayName())))
	b.WriteString("\n\n")

	cursor := m.cursor
	view := netView{
		cube:   m.session.Cube(),
		marks:  m.tokens.at,
		cursor: &cursor,
		active: m.active,
	}
	b.WriteString(view.render())
	b.WriteString("\n")

	scores := m.overlay.Scores()
	current := m.overlay.Current()
	fmt.Fprintf(&b, "Score  %s %d  %s %d    Turn: %s\n",
		playerStyles[cubetoe.PlayerX].Render("X"), scores.X,
		playerStyles[cubetoe.PlayerO].Render("O"), scores.O,
		playerStyles[current].Render(current.String()),
	)
	fmt.Fprintf(&b, "Cursor: %s row %d col %d\n", m.cursor.face, m.cursor.row, m.cursor.col)

	if m.playing || m.result != nil {
		fmt.Fprintf(&b, "Solve steps left: %d   Rounds: %d\n", m.session.Remaining(), m.game.Round())
	}
	if m.turning != "" {
		b.WriteString("Turning: ")
		b.WriteString(moveStyle.Render(m.turning))
		b.WriteString("\n")
	} else if q := m.session.QueueLen(); q > 0 {
		fmt.Fprintf(&b, "Queued moves: %d\n", q)
	}
	if last := m.tokens.lastToken(); last != "" {
		b.WriteString(statusStyle.Render("Last mark: " + last))
		b.WriteString("\n")
	}

	if shuffle := m.session.ShuffleList(); len(shuffle) > 0 {
		notations := make([]string, len(shuffle))
		for i, mv := range shuffle {
			notations[i] = mv.Notation()
		}
		start := 0
		prefix := ""
		if len(notations) > 12 {
			start = len(notations) - 12
			prefix = "... "
		}
		b.WriteString("Shuffle: ")
		b.WriteString(moveStyle.Render(prefix + strings.Join(notations[start:], " ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.result != nil {
		winner := "Draw"
		if w := m.result.Winner(); w != cubetoe.Empty {
			winner = w.String() + " wins"
		}
		end := "puzzle solved"
		if !m.result.Solved {
			end = "faces full"
		}
		b.WriteString(phaseStyle.Render(fmt.Sprintf("GAME OVER (%s): %s %d-%d", end, winner, m.result.Scores.X, m.result.Scores.O)))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString(phaseStyle.Render(m.notice))
		b.WriteString("\n")
	}
	if m.auto {
		b.WriteString(statusStyle.Render("Auto-play on"))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "Keys: s=shuffle  q=quit"
	if m.playing {
		help = "arrows/hjkl=move tab=face space=mark | g=go a=auto r=reset s=new q=quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	if m.log != nil {
		b.WriteString(helpStyle.Render("Log: " + m.log.Path()))
		b.WriteString("\n")
	}

	return b.String()
}

func runPlay(cmd *cobra.Command, args []string) error {
	settings := playFlags.resolve(cfg)
	if settings.size < 1 {
		return fmt.Errorf("invalid size %d", settings.size)
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log, err := openLogFile(cfg.LogDir, "play", level)
	if err != nil {
		return err
	}
	defer log.Close()

	var rec *recorder.Recorder
	if !settings.noRecord {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		rec = recorder.New(db, log.logger)
	}

	anim := &tuiAnimator{}
	model, err := newPlayModel(settings, anim, rec, log)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	anim.setSender(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if rec != nil && rec.GameID() != "" {
		fmt.Printf("Last game: %s (cubetoe history show --last)\n", rec.GameID())
	}
	return nil
}
