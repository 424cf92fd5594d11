package service

import (
	"fmt"

	"go.uber.org/zap"

	"talkrec/internal/domain"
	"talkrec/internal/embedding"
	"talkrec/internal/feed"
	"talkrec/internal/recommender"
	"talkrec/internal/summarizer"
	"talkrec/internal/vectorstore"
)

// TalkSource provides the feed talks of a month window.
type TalkSource interface {
	domain.DocumentSource
	Talks(start, end string) ([]feed.Talk, error)
}

// Window is an inclusive "YYYY-MM" month range. The zero value means unbounded
// by the caller; the service falls back to its corpus window.
type Window struct {
	Start string
	End   string
}

// Options configures the service.
type Options struct {
	Corpus     Window
	Profiles   map[string][]string
	MinkowskiP float64
	Summary    *summarizer.TermSummarizer
}

// Request asks for recommendations for one user.
type Request struct {
	User        string
	Metric      string
	Scheme      domain.Scheme
	Candidates  Window // restricts candidates to talks published in this window
	TopN        int    // 0 = all
	ExcludeSeen bool   // drop the user's own bookmarked talks
}

// Item is one recommended talk.
type Item struct {
	domain.Recommendation
	Talk  feed.Talk
	Found bool // talk details were available in the corpus window
}

// Result is a ranked recommendation list with context for display.
type Result struct {
	User       string
	Metric     domain.Metric
	Scheme     domain.Scheme
	Query      domain.SparseVector
	Profile    string
	Items      []Item
	Total      int
	Degenerate int
}

// GenerateSummary reports what a generation pass produced.
type GenerateSummary struct {
	Scheme    domain.Scheme
	Documents int
	Vectors   int
}

// RecommendService wires the feed, vectorizer, vector store and recommender.
type RecommendService struct {
	source      TalkSource
	vectorizer  *embedding.Vectorizer
	store       vectorstore.Storage
	recommender *recommender.Recommender
	opts        Options
	log         *zap.Logger
}

func NewRecommendService(source TalkSource, vectorizer *embedding.Vectorizer, store vectorstore.Storage, opts Options, log *zap.Logger) *RecommendService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Summary == nil {
		opts.Summary = summarizer.NewTermSummarizer(0)
	}
	return &RecommendService{
		source:      source,
		vectorizer:  vectorizer,
		store:       store,
		recommender: recommender.New(vectorizer),
		opts:        opts,
		log:         log,
	}
}

// Generate vectorizes every talk in the corpus window under scheme and
// replaces the stored vectors for that scheme.
func (s *RecommendService) Generate(scheme domain.Scheme) (GenerateSummary, error) {
	docs, err := s.source.Documents(s.opts.Corpus.Start, s.opts.Corpus.End)
	if err != nil {
		return GenerateSummary{}, fmt.Errorf("load feeds: %w", err)
	}
	s.log.Info("feeds loaded",
		zap.String("start", s.opts.Corpus.Start),
		zap.String("end", s.opts.Corpus.End),
		zap.Int("documents", len(docs)))

	set, err := s.vectorizer.Vectorize(docs, scheme)
	if err != nil {
		return GenerateSummary{}, err
	}
	if err := s.store.Save(set); err != nil {
		return GenerateSummary{}, fmt.Errorf("store vectors: %w", err)
	}
	s.log.Info("vectors written", zap.String("scheme", string(scheme)), zap.Int("vectors", set.Len()))
	return GenerateSummary{Scheme: scheme, Documents: len(docs), Vectors: set.Len()}, nil
}

// Recommend ranks the stored corpus vectors against the user's bookmarked talks.
func (s *RecommendService) Recommend(req Request) (Result, error) {
	metric, err := domain.ParseMetric(req.Metric, s.opts.MinkowskiP)
	if err != nil {
		return Result{}, err
	}
	ids, ok := s.opts.Profiles[req.User]
	if !ok {
		return Result{}, fmt.Errorf("%w %q: add bookmarked talk ids under profiles", domain.ErrUnknownUser, req.User)
	}

	talks, err := s.source.Talks(s.opts.Corpus.Start, s.opts.Corpus.End)
	if err != nil {
		return Result{}, fmt.Errorf("load feeds: %w", err)
	}
	byID := indexTalks(talks)
	seen := make(map[string]struct{}, len(ids))
	var userDocs []domain.Document
	for _, id := range ids {
		seen[id] = struct{}{}
		if t, ok := byID[id]; ok {
			userDocs = append(userDocs, t.Document())
		} else {
			s.log.Warn("bookmarked talk not in corpus window", zap.String("user", req.User), zap.String("talk", id))
		}
	}
	if len(userDocs) == 0 {
		return Result{}, fmt.Errorf("%w: none of user %q's bookmarked talks are in the feeds", domain.ErrEmptyUserProfile, req.User)
	}

	set, err := s.store.Load(req.Scheme)
	if err != nil {
		return Result{}, err
	}
	if req.Candidates != (Window{}) {
		set, err = s.restrict(set, req.Candidates)
		if err != nil {
			return Result{}, err
		}
	}

	ranking, err := s.recommender.Recommend(userDocs, []domain.VectorSet{set}, metric)
	if err != nil {
		return Result{}, fmt.Errorf("user %q: %w", req.User, err)
	}
	if len(ranking.Items) == 0 {
		return Result{}, fmt.Errorf("%w: none of the %d candidates can be scored by %s", domain.ErrNoVectors, set.Len(), metric)
	}
	if len(ranking.Degenerate) > 0 {
		s.log.Debug("skipped unscorable talks", zap.Strings("talks", ranking.Degenerate), zap.Stringer("metric", metric))
	}
	s.log.Info("candidates scored",
		zap.String("user", req.User),
		zap.Stringer("metric", metric),
		zap.String("scheme", string(req.Scheme)),
		zap.Int("candidates", set.Len()),
		zap.Int("ranked", len(ranking.Items)))

	res := Result{
		User:       req.User,
		Metric:     metric,
		Scheme:     req.Scheme,
		Query:      ranking.Query,
		Profile:    s.opts.Summary.Summarize(ranking.Query),
		Degenerate: len(ranking.Degenerate),
	}
	for _, rec := range ranking.Items {
		if _, own := seen[rec.ID]; own && req.ExcludeSeen {
			continue
		}
		t, found := byID[rec.ID]
		res.Items = append(res.Items, Item{Recommendation: rec, Talk: t, Found: found})
	}
	res.Total = len(res.Items)
	if req.TopN > 0 && len(res.Items) > req.TopN {
		res.Items = res.Items[:req.TopN]
	}
	return res, nil
}

// restrict keeps the entries of set published within w.
func (s *RecommendService) restrict(set domain.VectorSet, w Window) (domain.VectorSet, error) {
	if w.Start == "" {
		w.Start = s.opts.Corpus.Start
	}
	if w.End == "" {
		w.End = s.opts.Corpus.End
	}
	talks, err := s.source.Talks(w.Start, w.End)
	if err != nil {
		return domain.VectorSet{}, fmt.Errorf("load candidate window: %w", err)
	}
	allowed := indexTalks(talks)
	out := domain.VectorSet{Scheme: set.Scheme}
	for _, e := range set.Entries {
		if _, ok := allowed[e.ID]; ok {
			out.Entries = append(out.Entries, e)
		}
	}
	if out.Len() == 0 {
		return domain.VectorSet{}, fmt.Errorf("%w: no stored %s talks published between %s and %s", domain.ErrNoVectors, set.Scheme, w.Start, w.End)
	}
	return out, nil
}

func indexTalks(talks []feed.Talk) map[string]feed.Talk {
	m := make(map[string]feed.Talk, len(talks))
	for _, t := range talks {
		if _, ok := m[t.ID]; !ok {
			m[t.ID] = t
		}
	}
	return m
}
