package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/mirror/internal/config"
	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/host/scenedb"
	"github.com/banshee-data/mirror/internal/meshmath"
	"github.com/banshee-data/mirror/internal/mirror"
	"github.com/banshee-data/mirror/internal/monitoring"
	"github.com/banshee-data/mirror/internal/report"
	"github.com/banshee-data/mirror/internal/security"
	"github.com/banshee-data/mirror/internal/symmetry"
)

func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func nodeArgs(fs *flag.FlagSet) []host.Node {
	out := make([]host.Node, 0, fs.NArg())
	for _, a := range fs.Args() {
		out = append(out, host.Node(a))
	}
	return out
}

// nodesOrAll returns the positional nodes, or every node in the scene.
func nodesOrAll(ctx context.Context, fs *flag.FlagSet, db *scenedb.DB) ([]host.Node, error) {
	if fs.NArg() > 0 {
		return nodeArgs(fs), nil
	}
	return db.Nodes(ctx)
}

func cmdNodes(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("nodes", &c)
	withAttrs := fs.Bool("attrs", false, "Also list every attribute under each node")
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	nodes, err := db.Nodes(ctx)
	if err != nil {
		return err
	}
	reg := mirror.NewRegistry(db)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tSIDE\tSLOT\tAXIS")
	for _, n := range nodes {
		md, err := reg.Metadata(ctx, n)
		if err != nil {
			return err
		}
		side, slot, axis := "-", "-", "-"
		if md.Side != nil {
			side = md.Side.String()
		}
		if md.Slot != 0 {
			slot = strconv.Itoa(md.Slot)
		}
		if md.AxisChannels != nil {
			axis = strings.Join(*md.AxisChannels, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n, side, slot, axis)
		if !*withAttrs {
			continue
		}
		attrs, err := db.ListAttrs(ctx, n)
		if err != nil {
			return err
		}
		for _, a := range attrs {
			fmt.Fprintf(tw, "  .%s\t%s\t%v\t\n", a.Name, a.Type, a.Value)
		}
	}
	return tw.Flush()
}

// cmdCompare reports which candidate meshes match the base mesh point for
// point, or with --differ which ones move at least one vertex.
func cmdCompare(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("compare", &c)
	base := fs.String("base", "", "Base mesh node (required)")
	tol := fs.Float64("tol", 0, "Per-point distance tolerance (default from config)")
	differ := fs.Bool("differ", false, "List candidates that differ from the base instead")
	space := fs.String("space", "", "Coordinate space: object or world (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *base == "" || fs.NArg() == 0 {
		return errors.New("compare: --base and at least one candidate are required")
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if isSet(fs, "tol") {
		cfg.Tolerance = tol
	}
	if *space != "" {
		cfg.Space = space
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	sp := cfg.GetSpace()
	basePts, err := db.Positions(ctx, host.Node(*base), sp)
	if err != nil {
		return err
	}
	cands := nodeArgs(fs)
	pts := make([][]symmetry.Point, len(cands))
	for i, n := range cands {
		if pts[i], err = db.Positions(ctx, n, sp); err != nil {
			return err
		}
	}
	for _, i := range symmetry.ComparePoints(basePts, pts, cfg.GetTolerance(), !*differ) {
		fmt.Fprintln(out, cands[i])
	}
	return nil
}

func cmdRegister(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("register", &c)
	side := fs.String("side", "", "Mirror side: Centre/Center, Left, Right or 0/1/2")
	slot := fs.Int("slot", 0, "Mirror slot pairing Left and Right nodes (0 leaves it unset)")
	axis := fs.String("axis", "", "Comma-separated channels to invert; pass an empty string to invert none")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("register: no nodes given")
	}

	var opts mirror.RegisterOptions
	if *side != "" {
		s, err := mirror.SideValue(*side)
		if err != nil {
			return err
		}
		opts.Side = s
	}
	opts.Slot = *slot
	if isSet(fs, "axis") {
		var ch []string
		for _, a := range strings.Split(*axis, ",") {
			if a = strings.TrimSpace(a); a != "" {
				ch = append(ch, a)
			}
		}
		opts.AxisChannels = mirror.ChannelList(ch...)
	}

	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	reg := mirror.NewRegistry(db)
	for _, n := range nodeArgs(fs) {
		if err := reg.Register(ctx, n, opts); err != nil {
			return err
		}
		fmt.Fprintf(out, "registered %s\n", n)
	}
	return nil
}

func cmdDeregister(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("deregister", &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	nodes, err := nodesOrAll(ctx, fs, db)
	if err != nil {
		return err
	}
	reg := mirror.NewRegistry(db)
	var errs []error
	for _, n := range nodes {
		if err := reg.Deregister(ctx, n); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(out, "deregistered %s\n", n)
	}
	return errors.Join(errs...)
}

func cmdSets(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("sets", &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	nodes, err := nodesOrAll(ctx, fs, db)
	if err != nil {
		return err
	}
	set, skipped := mirror.NewRegistry(db).BuildMirrorSet(ctx, nodes)
	fmt.Fprint(out, set)
	for _, s := range skipped {
		fmt.Fprintf(out, "skipped %s: %s\n", s.Node, s.Reason)
	}
	return nil
}

func cmdMirror(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("mirror", &c)
	mode := fs.String("mode", "", "Transfer mode: anim or attribute (default from config)")
	start := fs.Float64("start", 0, "First key time to mirror (anim mode)")
	end := fs.Float64("end", 0, "Last key time to mirror (anim mode)")
	clearUnkeyed := fs.Bool("clear-unkeyed", false, "Anim mode: clear keys on a node whose partner has none, for an exact swap")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if *mode != "" {
		cfg.TransferMode = mode
	}
	if isSet(fs, "start") {
		cfg.TimeRangeStart = start
	}
	if isSet(fs, "end") {
		cfg.TimeRangeEnd = end
	}
	if isSet(fs, "clear-unkeyed") {
		cfg.ClearUnkeyed = clearUnkeyed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	nodes, err := nodesOrAll(ctx, fs, db)
	if err != nil {
		return err
	}
	e := mirror.NewEngine(db, cfg.GetTransferMode(), cfg.GetTransferChannels(), cfg.GetTimeRange())
	e.Registry.DefaultChannels = cfg.GetDefaultAxisChannels()
	if cfg.GetTransferMode() == mirror.ModeAnim && cfg.GetClearUnkeyed() {
		e.Transfer = mirror.AnimTransferClearing(db, cfg.GetTransferChannels(), cfg.GetTimeRange())
	}
	rep, err := e.MirrorData(ctx, nodes)
	if err != nil {
		return err
	}
	printTransferReport(out, rep)
	return rep.Err()
}

func printTransferReport(out io.Writer, rep *mirror.TransferReport) {
	for _, p := range rep.Swapped {
		fmt.Fprintf(out, "swapped  slot %d: %s <-> %s\n", p.Slot, p.Left, p.Right)
	}
	for _, n := range rep.Inverted {
		fmt.Fprintf(out, "inverted %s\n", n)
	}
	for _, m := range rep.MissingPartners {
		fmt.Fprintf(out, "missing  %s slot %d: %s has no partner\n", m.Side, m.Slot, m.Node)
	}
	for _, s := range rep.Skipped {
		fmt.Fprintf(out, "skipped  %s: %s\n", s.Node, s.Reason)
	}
	for _, f := range rep.InvertFailures {
		fmt.Fprintf(out, "failed   %v\n", f)
	}
	for _, f := range rep.PairFailures {
		fmt.Fprintf(out, "failed   slot %d: %v\n", f.Slot, f.Err)
	}
}

// planeFlags are shared by symmetry and meshmath.
type planeFlags struct {
	axis, center, strategy *string
	tol                    *float64
}

func addPlaneFlags(fs *flag.FlagSet) planeFlags {
	return planeFlags{
		axis:     fs.String("axis", "", "Mirror axis x, y or z (default from config)"),
		center:   fs.String("center", "", "Plane origin: pivot, world or boundingBox (default from config)"),
		strategy: fs.String("strategy", "", "Pairing strategy: first or optimal (default from config)"),
		tol:      fs.Float64("tol", 0, "Match tolerance (default from config)"),
	}
}

func (p planeFlags) apply(fs *flag.FlagSet, c *common) (*config.MirrorConfig, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if *p.axis != "" {
		cfg.Axis = p.axis
	}
	if *p.center != "" {
		cfg.CenterMode = p.center
	}
	if *p.strategy != "" {
		cfg.MatchStrategy = p.strategy
	}
	if isSet(fs, "tol") {
		cfg.Tolerance = p.tol
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func cmdSymmetry(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("symmetry", &c)
	node := fs.String("node", "", "Mesh node to classify (required)")
	pf := addPlaneFlags(fs)
	pngPath := fs.String("png", "", "Write a scatter plot image to this file")
	htmlPath := fs.String("html", "", "Write an interactive scatter page to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *node == "" {
		return errors.New("symmetry: --node is required")
	}
	for _, p := range []string{*pngPath, *htmlPath} {
		if p == "" {
			continue
		}
		if err := security.CheckExportPath(p); err != nil {
			return err
		}
	}
	cv, err := pf.apply(fs, &c)
	if err != nil {
		return err
	}

	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	n := host.Node(*node)
	r, err := symmetry.MatchNode(ctx, db, n, cv.GetCenterMode(), cv.GetAxis(), cv.GetTolerance(), cv.GetMatchOptions())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, r.Summary())
	if len(r.Asymmetrical) > 0 {
		fmt.Fprintf(out, "asymmetrical: %v\n", r.Asymmetrical)
	}

	if *pngPath == "" && *htmlPath == "" {
		return nil
	}
	pts, err := db.Positions(ctx, n, host.WorldSpace)
	if err != nil {
		return err
	}
	if *pngPath != "" {
		if err := report.WritePNG(*pngPath, pts, r); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", *pngPath)
	}
	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			return err
		}
		if err := report.WriteHTML(f, pts, r); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", *htmlPath)
	}
	return nil
}

func cmdMeshMath(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("meshmath", &c)
	source := fs.String("source", "", "Source mesh node (required)")
	target := fs.String("target", "", "Target mesh node (required)")
	op := fs.String("op", "", "Operation: add, subtract, blend, flip, symPos, copyTo, ... (required)")
	mult := fs.Float64("mult", 0, "Multiplier; 0 uses the operation default")
	result := fs.String("result", "", "Where to write: new, modify or values (default from config)")
	space := fs.String("space", "", "Coordinate space: object or world (default from config)")
	pf := addPlaneFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" || *target == "" || *op == "" {
		return errors.New("meshmath: --source, --target and --op are required")
	}
	mode, err := meshmath.ParseMode(*op)
	if err != nil {
		return err
	}
	cv, err := pf.apply(fs, &c)
	if err != nil {
		return err
	}
	if isSet(fs, "mult") {
		cv.Multiplier = mult
	}
	if *result != "" {
		cv.ResultMode = result
	}
	if *space != "" {
		cv.Space = space
	}
	if err := cv.Validate(); err != nil {
		return err
	}

	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := meshmath.Apply(ctx, db, db, host.Node(*source), host.Node(*target), meshmath.Request{
		Mode:       mode,
		Space:      cv.GetSpace(),
		Center:     cv.GetCenterMode(),
		Axis:       cv.GetAxis(),
		Tolerance:  cv.GetTolerance(),
		Multiplier: cv.GetMultiplier(),
		Result:     cv.GetResultMode(),
		Match:      cv.GetMatchOptions(),
	})
	if err != nil {
		return err
	}
	if res.Report != nil {
		fmt.Fprintln(out, res.Report.Summary())
	}
	if res.Node == "" {
		for i, p := range res.Positions {
			fmt.Fprintf(out, "%d\t%g\t%g\t%g\n", i, p.X, p.Y, p.Z)
		}
		return nil
	}
	fmt.Fprintf(out, "%s: wrote %d positions\n", res.Node, len(res.Positions))
	return nil
}

func cmdMigrate(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("migrate", &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: mirrorctl migrate [--db file] <up|down|version|force N>")
	}
	monitoring.SetVerbose(c.verbose)
	db, err := scenedb.OpenRaw(c.db)
	if err != nil {
		return err
	}
	defer db.Close()

	migrations := scenedb.MigrationsFS()
	switch action := fs.Arg(0); action {
	case "up":
		if err := db.MigrateUp(migrations); err != nil {
			return err
		}
	case "down":
		if err := db.MigrateDown(migrations); err != nil {
			return err
		}
	case "version", "status":
	case "force":
		if fs.NArg() < 2 {
			return errors.New("usage: mirrorctl migrate force <version>")
		}
		v, err := strconv.Atoi(fs.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", fs.Arg(1), err)
		}
		if err := db.MigrateForce(migrations, v); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown migrate action: %s", action)
	}
	v, dirty, err := db.MigrateVersion(migrations)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema version %d (dirty=%v)\n", v, dirty)
	return nil
}

func cmdServe(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("serve", &c)
	listen := fs.String("listen", "localhost:8080", "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	mux := http.NewServeMux()
	if err := db.AttachAdminRoutes(mux); err != nil {
		return err
	}
	server := &http.Server{Addr: *listen, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		fmt.Fprintf(out, "serving %s on http://%s/debug/\n", db.Path(), *listen)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
