package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"nirvachan/internal/audit"
	"nirvachan/internal/auth/service"
	"nirvachan/internal/auth/store/revocation"
	userstore "nirvachan/internal/auth/store/user"
	"nirvachan/internal/candidate"
	"nirvachan/internal/election"
	nhttp "nirvachan/internal/http"
	"nirvachan/internal/jwttoken"
	"nirvachan/internal/party"
	"nirvachan/internal/platform/config"
	"nirvachan/internal/platform/httpserver"
	"nirvachan/internal/platform/logger"
	"nirvachan/internal/platform/metrics"
	"nirvachan/internal/platform/postgres"
	"nirvachan/internal/platform/redis"
	"nirvachan/internal/tally"
	"nirvachan/internal/vote"
	"nirvachan/internal/voter"

	authhandler "nirvachan/internal/auth/handler"
	candidatehandler "nirvachan/internal/candidate/handler"
	electionhandler "nirvachan/internal/election/handler"
	partyhandler "nirvachan/internal/party/handler"
	tallyhandler "nirvachan/internal/tally/handler"
	votehandler "nirvachan/internal/vote/handler"
	voterhandler "nirvachan/internal/voter/handler"
)

// main wires dependencies and owns process lifecycle. Business rules live in
// the internal feature packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("run migrations", "error", err)
		os.Exit(1)
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	m := metrics.New()

	auditor := audit.NewPublisher(audit.NewPostgresStore(db), log, audit.WithAsyncBuffer(256))

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer)
	var trl service.RevocationList
	if rdb != nil {
		trl = revocation.NewRedisTRL(rdb)
	} else {
		log.Warn("redis not configured, using in-memory token revocation list")
		trl = revocation.NewInMemoryTRL()
	}

	authSvc := service.New(userstore.NewPostgres(db), tokens, trl, auditor, log, cfg.TokenTTL)
	voterSvc := voter.NewService(voter.NewPostgres(db), auditor, m, log, cfg.AcceptedNationality)
	partyResolver := party.NewResolver(party.NewPostgres(db), log)
	electionSvc := election.NewService(election.NewPostgresStore(db), auditor, cfg.NationalRegion, log)
	candidateSvc := candidate.NewService(candidate.NewPostgresStore(db), partyResolver, electionSvc, auditor, log)
	voteSvc := vote.NewService(vote.NewPostgresStore(db), electionSvc, candidateSvc, auditor, m, log)
	tallySvc := tally.NewService(tally.NewPostgresStore(db), log)

	router := nhttp.NewRouter(nhttp.Deps{
		Logger:     log,
		Metrics:    m,
		DB:         db,
		Redis:      rdb,
		Auth:       authhandler.New(authSvc, voterSvc, log),
		Validator:  authSvc,
		Voters:     voterhandler.New(voterSvc, log),
		Elections:  electionhandler.New(electionSvc, voterSvc, cfg.AcceptedNationality, log),
		Candidates: candidatehandler.New(candidateSvc, log),
		Votes:      votehandler.New(voteSvc, voterSvc, log),
		Tallies:    tallyhandler.New(tallySvc, electionSvc, log),
		Parties:    partyhandler.New(partyResolver, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := auditor.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
