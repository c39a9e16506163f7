package service

import (
	"context"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"go.uber.org/zap"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// Stage names the pipeline phases, logged as each request advances
type Stage string

const (
	StageDecoding   Stage = "DECODING"
	StageExtracting Stage = "EXTRACTING"
	StagePredicting Stage = "PREDICTING"
	StageEnriching  Stage = "ENRICHING"
	StageComposing  Stage = "COMPOSING"
	StageDone       Stage = "DONE"
	StageFailed     Stage = "FAILED"
)

// Per-domain confidence constants matching the reconciliation rules
const (
	gasConfidence           = 0.85
	degradedFraudConfidence = 0.5

	fraudConfidenceWeight          = 0.3
	gasConfidenceWeight            = 0.3
	classificationConfidenceWeight = 0.4
)

var txHashPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)

// ValidateTxHash rejects malformed transaction hashes before any RPC work
func ValidateTxHash(txHash string) error {
	if !txHashPattern.MatchString(txHash) {
		return entity.ErrInvalidTxHash
	}
	return nil
}

// Options tunes the orchestrator independently of the wiring
type Options struct {
	// DecodeTimeout bounds the decode phase including registry lookups
	DecodeTimeout time.Duration
	// ETHPriceUSD converts the fee for display; a fixed rate, not a feed
	ETHPriceUSD float64
}

// ExplanationApplicationService implements ExplanationService. It drives one
// request through decode, feature extraction, the concurrent predictor
// fan-out, rule reconciliation and narrative composition. A predictor failure
// degrades its domain; only decode failures abort the request.
type ExplanationApplicationService struct {
	decoder     service.TransactionDecoder
	predictors  *service.PredictorSet
	extractor   *service.FeatureExtractor
	rules       *service.RuleEngine
	composer    *service.NarrativeComposer
	recommender *service.RecommendationGenerator
	publisher   service.ExplanationPublisher
	opts        Options
	logger      *logger.Logger
}

// NewExplanationApplicationService creates the pipeline orchestrator
func NewExplanationApplicationService(
	decoder service.TransactionDecoder,
	predictors *service.PredictorSet,
	extractor *service.FeatureExtractor,
	rules *service.RuleEngine,
	composer *service.NarrativeComposer,
	recommender *service.RecommendationGenerator,
	publisher service.ExplanationPublisher,
	opts Options,
	logger *logger.Logger,
) service.ExplanationService {
	return &ExplanationApplicationService{
		decoder:     decoder,
		predictors:  predictors,
		extractor:   extractor,
		rules:       rules,
		composer:    composer,
		recommender: recommender,
		publisher:   publisher,
		opts:        opts,
		logger:      logger.WithComponent("explanation-service"),
	}
}

// Explain runs the full pipeline for one transaction hash
func (s *ExplanationApplicationService) Explain(ctx context.Context, txHash string) (*entity.ExplanationResult, error) {
	if err := ValidateTxHash(txHash); err != nil {
		return nil, err
	}
	log := s.logger.WithFields(map[string]interface{}{"tx_hash": txHash})
	started := time.Now()

	log.Debug("Pipeline stage", zap.String("stage", string(StageDecoding)))
	tx, stats, err := s.decode(ctx, txHash)
	if err != nil {
		log.Warn("Pipeline failed", zap.String("stage", string(StageFailed)), zap.Error(err))
		return nil, err
	}

	log.Debug("Pipeline stage", zap.String("stage", string(StageExtracting)))
	features := s.extract(tx, stats, log)

	log.Debug("Pipeline stage", zap.String("stage", string(StagePredicting)))
	predictions := s.predict(ctx, features, log)

	log.Debug("Pipeline stage", zap.String("stage", string(StageEnriching)))
	fraud := s.buildFraudAnalysis(predictions.Fraud, tx, stats)
	gas := s.buildGasAnalysis(predictions.Gas, tx)
	classification := s.buildClassification(predictions.Classification, tx)

	log.Debug("Pipeline stage", zap.String("stage", string(StageComposing)))
	narrative := s.composer.Compose(tx, fraud, gas, classification)
	tiers := entity.TierSet{
		RiskLevel:     fraud.RiskLevel,
		GasEfficiency: gas.Efficiency,
		ValueTier:     classification.ValueTier,
	}
	recommendations := s.recommender.Recommend(tiers, classification)

	result := &entity.ExplanationResult{
		TxHash:             txHash,
		Summary:            narrative.Summary,
		Sections:           narrative.Sections,
		Transaction:        tx,
		FraudAnalysis:      fraud,
		GasAnalysis:        gas,
		Classification:     classification,
		NaturalExplanation: narrative.FullText,
		ContextInsight:     s.composer.ContextInsight(tx, classification),
		Recommendations:    recommendations,
		GeneratedAt:        time.Now().UTC(),
		ConfidenceScore: fraud.Confidence*fraudConfidenceWeight +
			gas.Confidence*gasConfidenceWeight +
			classification.Confidence*classificationConfidenceWeight,
	}

	if s.publisher != nil {
		s.publisher.PublishExplanation(ctx, result)
	}

	log.Info("Pipeline completed",
		zap.String("stage", string(StageDone)),
		zap.String("risk_level", string(fraud.RiskLevel)),
		zap.String("category", classification.Category),
		zap.Bool("degraded", !fraud.Available || !gas.Available || !classification.Available),
		zap.Duration("elapsed", time.Since(started)))

	return result, nil
}

// QuickSummary decodes the transaction and classifies it heuristically,
// without touching the predictors
func (s *ExplanationApplicationService) QuickSummary(ctx context.Context, txHash string) (*service.QuickSummary, error) {
	if err := ValidateTxHash(txHash); err != nil {
		return nil, err
	}

	decodeCtx, cancel := s.decodeContext(ctx)
	defer cancel()
	tx, err := s.decoder.Decode(decodeCtx, txHash)
	if err != nil {
		return nil, err
	}

	tier := s.valueTier(tx)
	category, _ := service.HeuristicCategory(tx, tier)

	return &service.QuickSummary{
		TxHash:         txHash,
		Summary:        s.composer.QuickSummary(tx),
		Classification: category,
		ValueTier:      tier,
	}, nil
}

func (s *ExplanationApplicationService) decodeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.DecodeTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.DecodeTimeout)
	}
	return ctx, func() {}
}

func (s *ExplanationApplicationService) decode(ctx context.Context, txHash string) (*entity.TransactionRecord, *entity.WalletStats, error) {
	decodeCtx, cancel := s.decodeContext(ctx)
	defer cancel()

	tx, err := s.decoder.Decode(decodeCtx, txHash)
	if err != nil {
		return nil, nil, err
	}

	// Wallet history is auxiliary; a failed lookup falls back to the
	// synthetic profile during extraction
	stats, err := s.decoder.AddressStats(decodeCtx, tx.From)
	if err != nil {
		s.logger.Debug("Address stats unavailable",
			zap.String("address", tx.From),
			zap.Error(err))
		stats = nil
	}
	return tx, stats, nil
}

// extract builds the per-domain feature vectors. A vector that cannot be
// built leaves its slot nil and only that prediction degrades.
func (s *ExplanationApplicationService) extract(tx *entity.TransactionRecord, stats *entity.WalletStats, log *logger.Logger) *entity.FeatureSet {
	features := &entity.FeatureSet{}
	for _, domain := range []entity.PredictionDomain{entity.DomainFraud, entity.DomainGas, entity.DomainClassification} {
		vector, err := s.extractor.Extract(tx, stats, domain)
		if err != nil {
			log.Warn("Feature extraction failed",
				zap.String("domain", string(domain)),
				zap.Error(err))
			continue
		}
		switch domain {
		case entity.DomainFraud:
			features.Fraud = vector
		case entity.DomainGas:
			features.Gas = vector
		case entity.DomainClassification:
			features.Classification = vector
		}
	}
	return features
}

// predict fans out to the three predictors concurrently. Tasks record their
// own outcome and never cancel the siblings.
func (s *ExplanationApplicationService) predict(ctx context.Context, features *entity.FeatureSet, log *logger.Logger) *entity.PredictionSet {
	set := &entity.PredictionSet{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, _ := s.runPredictor(gctx, s.predictors.Fraud, features.Fraud, log).(*entity.FraudResult)
		set.Fraud = res
		return nil
	})
	g.Go(func() error {
		res, _ := s.runPredictor(gctx, s.predictors.Gas, features.Gas, log).(*entity.GasResult)
		set.Gas = res
		return nil
	})
	g.Go(func() error {
		res, _ := s.runPredictor(gctx, s.predictors.Classification, features.Classification, log).(*entity.ClassificationResult)
		set.Classification = res
		return nil
	})

	g.Wait()
	return set
}

func (s *ExplanationApplicationService) runPredictor(ctx context.Context, p service.Predictor, features *entity.FeatureVector, log *logger.Logger) entity.PredictionResult {
	if p == nil || features == nil {
		return nil
	}
	result, err := p.Predict(ctx, features)
	if err != nil {
		log.Warn("Prediction degraded",
			zap.String("domain", string(p.Domain())),
			zap.Error(err))
		return nil
	}
	return result
}

func (s *ExplanationApplicationService) buildFraudAnalysis(res *entity.FraudResult, tx *entity.TransactionRecord, stats *entity.WalletStats) *entity.FraudAnalysis {
	if res == nil {
		return &entity.FraudAnalysis{
			RiskScore:   0,
			RiskLevel:   entity.RiskLevelUnknown,
			RiskFactors: []string{"Unable to analyze - risk model unavailable"},
			Confidence:  degradedFraudConfidence,
			Available:   false,
		}
	}

	level, err := s.rules.RiskLevel(res.RiskScore)
	if err != nil {
		s.logger.Error("Risk score out of range", zap.Float64("score", res.RiskScore), zap.Error(err))
		level = entity.RiskLevelUnknown
	}

	if stats == nil {
		stats = service.SyntheticWalletStats(tx)
	}

	return &entity.FraudAnalysis{
		RiskScore:   res.RiskScore,
		RiskLevel:   level,
		RiskFactors: service.IdentifyRiskFactors(stats),
		Confidence:  1 - (abs(0.5-res.RiskScore) * 0.5),
		Available:   true,
	}
}

func (s *ExplanationApplicationService) buildGasAnalysis(res *entity.GasResult, tx *entity.TransactionRecord) *entity.GasAnalysis {
	analysis := &entity.GasAnalysis{
		ActualGasGwei: tx.GasPriceGwei,
		FeeETH:        tx.FeeETH,
		FeeUSD:        tx.FeeETH * s.opts.ETHPriceUSD,
		GasUsed:       tx.GasUsed,
		Efficiency:    entity.GasEfficiencyUnknown,
		Available:     false,
	}
	if res == nil {
		analysis.Explanation = service.GasExplanation(entity.GasEfficiencyUnknown)
		return analysis
	}

	efficiency, err := s.rules.GasEfficiency(res.PredictedGwei, tx.GasPriceGwei)
	if err != nil {
		s.logger.Error("Gas reconciliation failed",
			zap.Float64("predicted", res.PredictedGwei),
			zap.Float64("actual", tx.GasPriceGwei),
			zap.Error(err))
		analysis.Explanation = service.GasExplanation(entity.GasEfficiencyUnknown)
		return analysis
	}

	analysis.PredictedGasGwei = res.PredictedGwei
	analysis.DifferencePercent = s.rules.GasDeltaPercent(res.PredictedGwei, tx.GasPriceGwei)
	analysis.Efficiency = efficiency
	analysis.Explanation = service.GasExplanation(efficiency)
	analysis.Confidence = gasConfidence
	analysis.Available = true
	return analysis
}

func (s *ExplanationApplicationService) buildClassification(res *entity.ClassificationResult, tx *entity.TransactionRecord) *entity.Classification {
	tier := s.valueTier(tx)
	if res == nil {
		category, description := service.HeuristicCategory(tx, tier)
		return &entity.Classification{
			Category:      category,
			Description:   description,
			ValueTier:     tier,
			Confidence:    0,
			AllCategories: []entity.CategoryScore{},
			Available:     false,
		}
	}

	return &entity.Classification{
		Category:      res.Category,
		Description:   service.CategoryDescription(res.Category),
		ValueTier:     tier,
		Confidence:    res.Confidence,
		AllCategories: s.rules.CategoryRanking(res.Distribution),
		Available:     true,
	}
}

func (s *ExplanationApplicationService) valueTier(tx *entity.TransactionRecord) entity.ValueTier {
	if tx.HasTokenData() {
		return s.rules.ValueTier(tx.TokenAmount, tx.Token.Symbol)
	}
	return s.rules.ValueTier(tx.ValueETH, "")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
