package grouping

import (
	"context"
	"io"
	"net/mail"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

// mockable
var nowFunc = func() time.Time { return time.Now().UTC() }

type (
	// Repository is the group persistence adapter.
	Repository interface {
		// SaveGroups stores groups in order. When clearExisting is set, every
		// prior group of the class (and its memberships) is deleted first.
		SaveGroups(ctx context.Context, classID string, groups []Group, clearExisting bool) ([]Group, error)
		// QueryGroups returns the stored groups of a class, oldest run first.
		QueryGroups(ctx context.Context, classID string) ([]Group, error)
		DeleteGroups(ctx context.Context, classID string) (int, error)
	}

	// Exporter renders groups as a downloadable document.
	Exporter interface {
		ContentType() string
		Filename(classID string) string
		Export(w io.Writer, classID string, groups []Group, unplaced []roster.Student) error
	}

	Service struct {
		rosterRepo    roster.Repository
		groupRepo     Repository
		mailSvc       core.EmailService
		exporter      Exporter
		log           core.Logger
		validate      *validator.Validate
		generator     *Generator
		defaultPrefix string
		locks         classLocks
	}
)

func NewService(
	rosterRepo roster.Repository,
	groupRepo Repository,
	mailSvc core.EmailService,
	exporter Exporter,
	logger core.Logger,
	validate *validator.Validate,
	conf *core.Config,
) *Service {
	prefix := conf.Grouping.DefaultPrefix
	if prefix == "" {
		prefix = "Group"
	}
	return &Service{
		rosterRepo:    rosterRepo,
		groupRepo:     groupRepo,
		mailSvc:       mailSvc,
		exporter:      exporter,
		log:           logger,
		validate:      validate,
		generator:     NewGenerator(conf.Grouping.AttemptBudget),
		defaultPrefix: prefix,
	}
}

func (svc *Service) Generator() *Generator { return svc.generator }

func (svc *Service) prepare(opts *Options) error {
	if err := opts.Validate(svc.validate); err != nil {
		return err
	}
	if opts.Prefix == "" {
		opts.Prefix = svc.defaultPrefix
	}
	return nil
}

// run loads the class snapshot and partitions its roster. Nothing is stored.
func (svc *Service) run(ctx context.Context, classID string, opts Options) (Result, error) {
	snap, err := roster.LoadSnapshot(ctx, svc.rosterRepo, classID)
	if err != nil {
		return Result{}, errors.Wrap(err, "loading class")
	}

	profiles := BuildAbilityProfiles(snap.Assessments, snap.Entries, snap.Students)
	constraints := BuildConstraintSet(snap.Students, snap.Constraints)

	part, err := svc.generator.Generate(snap.Students, constraints, opts, profiles)
	if err != nil {
		return Result{}, err
	}

	res := part.Result(classID, opts.Prefix, nowFunc())
	svc.report(res, opts, constraints)
	return res, nil
}

func (svc *Service) report(res Result, opts Options, constraints ConstraintSet) {
	details := map[string]interface{}{
		"class_id":    res.ClassID,
		"groups":      len(res.Groups),
		"placed":      res.Placed,
		"roster_size": res.RosterSize,
		"attempts":    res.Attempts,
		"constraints": constraints.Len(),
		"group_size":  opts.GroupSize,
	}
	if !res.Complete() {
		details["unplaced"] = roster.IDs(res.Unplaced)
		svc.log.Warn("attempt budget exhausted before every student was placed", details)
		return
	}
	if undersized := res.Undersized(opts.GroupSize); len(undersized) > 1 {
		details["undersized"] = len(undersized)
		svc.log.Info("groups generated with several undersized groups", details)
		return
	}
	svc.log.Debug("groups generated", details)
}

// Generate partitions the roster of a class and stores the groups.
// Runs for the same class are serialized; notify recipients get a summary email.
func (svc *Service) Generate(ctx context.Context, classID string, opts Options, notify ...mail.Address) (Result, error) {
	if err := svc.prepare(&opts); err != nil {
		return Result{}, err
	}

	unlock := svc.locks.lock(classID)
	defer unlock()

	res, err := svc.run(ctx, classID, opts)
	if err != nil {
		return Result{}, err
	}

	groups, err := svc.groupRepo.SaveGroups(ctx, classID, res.Groups, opts.ClearExisting)
	if err != nil {
		return Result{}, errors.Wrap(err, "saving groups")
	}
	res.Groups = groups
	res.Persisted = true

	if len(notify) > 0 {
		svc.notify(res, notify)
	}
	return res, nil
}

// Preview partitions the roster of a class without storing anything.
func (svc *Service) Preview(ctx context.Context, classID string, opts Options) (Result, error) {
	if err := svc.prepare(&opts); err != nil {
		return Result{}, err
	}
	return svc.run(ctx, classID, opts)
}

func (svc *Service) QueryGroups(ctx context.Context, classID string) ([]Group, error) {
	return svc.groupRepo.QueryGroups(ctx, classID)
}

func (svc *Service) DeleteGroups(ctx context.Context, classID string) (int, error) {
	unlock := svc.locks.lock(classID)
	defer unlock()
	return svc.groupRepo.DeleteGroups(ctx, classID)
}

// Profiles returns the ability profiles of the students of a class.
func (svc *Service) Profiles(ctx context.Context, classID string) (Profiles, error) {
	snap, err := roster.LoadSnapshot(ctx, svc.rosterRepo, classID)
	if err != nil {
		return nil, errors.Wrap(err, "loading class")
	}
	return BuildAbilityProfiles(snap.Assessments, snap.Entries, snap.Students), nil
}

// Export writes the stored groups of a class with the configured Exporter.
func (svc *Service) Export(ctx context.Context, w io.Writer, classID string) error {
	if svc.exporter == nil {
		return errors.New("no exporter configured")
	}
	groups, err := svc.groupRepo.QueryGroups(ctx, classID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return ErrGroupsNotFound
	}
	return svc.exporter.Export(w, classID, groups, nil)
}

func (svc *Service) Exporter() Exporter { return svc.exporter }

// classLocks serializes work on a class. Entries are dropped once unused.
type classLocks struct {
	mu    sync.Mutex
	locks map[string]*classLock
}

type classLock struct {
	sync.Mutex
	refs int
}

func (l *classLocks) lock(classID string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*classLock)
	}
	cl, ok := l.locks[classID]
	if !ok {
		cl = new(classLock)
		l.locks[classID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.Lock()
	return func() {
		cl.Unlock()
		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, classID)
		}
		l.mu.Unlock()
	}
}
