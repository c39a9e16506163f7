package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// ComposerConfig carries the thresholds and sets driving the context-insight rules
type ComposerConfig struct {
	WhaleThresholdETH   float64
	SignificantETH      float64
	Stablecoins         map[string]bool
	LiquidityCategories map[string]bool
}

// DefaultComposerConfig returns the shipped insight thresholds
func DefaultComposerConfig() ComposerConfig {
	return ComposerConfig{
		WhaleThresholdETH: 100,
		SignificantETH:    50,
		Stablecoins:       map[string]bool{"USDT": true, "USDC": true, "DAI": true},
		LiquidityCategories: map[string]bool{
			"Liquidity Provision": true,
			"Staking/Yield":       true,
		},
	}
}

// NarrativeComposer assembles the five-part natural-language explanation from
// the transaction, the reconciled analyses and the derived tiers. Templates
// are pure string formatting, so identical inputs always produce identical text.
type NarrativeComposer struct {
	cfg     ComposerConfig
	printer *message.Printer
}

// NewNarrativeComposer creates a composer with the given insight configuration
func NewNarrativeComposer(cfg ComposerConfig) *NarrativeComposer {
	if cfg.Stablecoins == nil {
		cfg.Stablecoins = map[string]bool{}
	}
	if cfg.LiquidityCategories == nil {
		cfg.LiquidityCategories = map[string]bool{}
	}
	return &NarrativeComposer{
		cfg:     cfg,
		printer: message.NewPrinter(language.English),
	}
}

// Compose builds the narrative with its five sections in fixed order:
// Summary, Classification, Gas Analysis, Fraud Risk, Context Insight.
func (nc *NarrativeComposer) Compose(
	tx *entity.TransactionRecord,
	fraud *entity.FraudAnalysis,
	gas *entity.GasAnalysis,
	classification *entity.Classification,
) *entity.Narrative {
	summary := nc.Summary(tx, classification)
	insight := nc.ContextInsight(tx, classification)
	statements := []string{
		nc.transferStatement(tx),
		nc.classificationStatement(classification),
		nc.GasStatement(gas),
		nc.FraudStatement(fraud),
		insight,
	}

	return &entity.Narrative{
		Summary:  summary,
		Sections: nc.buildSections(tx, fraud, gas, classification, insight),
		FullText: strings.Join(statements, "\n\n"),
	}
}

// Summary produces the one-line summary with token detection
func (nc *NarrativeComposer) Summary(tx *entity.TransactionRecord, classification *entity.Classification) string {
	category := "Transaction"
	if classification != nil && classification.Category != "" {
		category = classification.Category
	}
	if tx.HasTokenData() {
		return nc.printer.Sprintf("%s: %.2f %s transferred", string(tx.Status), tx.TokenAmount, tx.Token.Symbol)
	}
	if tx.ValueETH > 0 {
		return fmt.Sprintf("%s: %.4f ETH - %s", tx.Status, tx.ValueETH, category)
	}
	return fmt.Sprintf("%s: %s", tx.Status, category)
}

// QuickSummary is the reduced one-liner used by the summary endpoint
func (nc *NarrativeComposer) QuickSummary(tx *entity.TransactionRecord) string {
	if tx.HasTokenData() {
		return nc.printer.Sprintf("%s: Transferred %.2f %s", string(tx.Status), tx.TokenAmount, tx.Token.Symbol)
	}
	if tx.ContractInteraction {
		method := tx.MethodName
		if method == "" {
			method = "Unknown"
		}
		return fmt.Sprintf("%s: Contract call (%s) with %.4f ETH", tx.Status, method, tx.ValueETH)
	}
	return fmt.Sprintf("%s: Transferred %.4f ETH", tx.Status, tx.ValueETH)
}

func (nc *NarrativeComposer) transferStatement(tx *entity.TransactionRecord) string {
	from := ShortAddress(tx.From)
	toDisplay := ShortAddress(tx.To)
	if tx.ToLabel != nil && tx.ToLabel.Name != "" {
		toDisplay = tx.ToLabel.Name
	}
	switch {
	case tx.HasTokenData():
		return nc.printer.Sprintf("You transferred %.2f %s from %s to %s.", tx.TokenAmount, tx.Token.Symbol, from, toDisplay)
	case tx.ValueETH > 0:
		return fmt.Sprintf("You transferred %.4f ETH from %s to %s.", tx.ValueETH, from, toDisplay)
	default:
		return fmt.Sprintf("You executed a contract interaction from %s to %s.", from, toDisplay)
	}
}

func (nc *NarrativeComposer) classificationStatement(classification *entity.Classification) string {
	category := "Unknown"
	if classification != nil && classification.Category != "" {
		category = classification.Category
	}
	return fmt.Sprintf("This is classified as a %s.", category)
}

// GasStatement renders the calibrated gas explanation with the fee in USD
func (nc *NarrativeComposer) GasStatement(gas *entity.GasAnalysis) string {
	if gas == nil || !gas.Available {
		return "Gas efficiency could not be assessed for this transaction."
	}
	return fmt.Sprintf("%s (Fee: $%.2f USD)", gas.Explanation, gas.FeeUSD)
}

// GasExplanation maps an efficiency tier to its calibrated statement
func GasExplanation(efficiency entity.GasEfficiency) string {
	switch efficiency {
	case entity.GasEfficiencyExcellent:
		return "Gas fees were lower than predicted - excellent timing!"
	case entity.GasEfficiencyNormal:
		return "Gas fees were within normal range for network conditions."
	case entity.GasEfficiencyAboveAverage:
		return "Gas fees were higher than average, likely due to moderate network activity."
	case entity.GasEfficiencyCongested:
		return "Gas fees were significantly higher than predicted, indicating temporary network congestion or priority execution."
	default:
		return "Gas fees could not be compared against a prediction."
	}
}

// FraudStatement always produces a risk statement, even when safe
func (nc *NarrativeComposer) FraudStatement(fraud *entity.FraudAnalysis) string {
	if fraud == nil || !fraud.Available {
		return "Wallet behavior could not be analyzed for this transaction."
	}
	switch fraud.RiskLevel {
	case entity.RiskLevelLow:
		return "No suspicious wallet behavior detected."
	case entity.RiskLevelMedium:
		return "Transaction shows mild anomaly patterns. Exercise normal caution."
	case entity.RiskLevelHigh:
		return "Wallet behavior shows concerning patterns. Verify recipient before proceeding."
	case entity.RiskLevelCritical:
		return "Wallet behavior matches known phishing or scam activity patterns."
	default:
		return "Wallet behavior could not be analyzed for this transaction."
	}
}

// ContextInsight applies the interpretation rules in priority order and emits
// exactly one insight: whale transfer, exchange deposit, stablecoin payment,
// liquidity provisioning, then the standard-transfer fallback.
func (nc *NarrativeComposer) ContextInsight(tx *entity.TransactionRecord, classification *entity.Classification) string {
	if tx.ValueETH >= nc.cfg.WhaleThresholdETH && nc.cfg.WhaleThresholdETH > 0 {
		return "This is a whale-sized transfer, potentially representing institutional movement or large asset reallocation."
	}

	if tx.ToLabel != nil && tx.ToLabel.Type == entity.AddressTypeExchange {
		name := tx.ToLabel.Name
		if name == "" {
			name = "an exchange"
		}
		if tx.ValueETH > 10 {
			return fmt.Sprintf("This transaction resembles a large exchange deposit to %s, possibly for trading or liquidation.", name)
		}
		return fmt.Sprintf("This transaction appears to be a standard deposit to %s.", name)
	}

	if tx.HasTokenData() && nc.cfg.Stablecoins[tx.Token.Symbol] {
		return fmt.Sprintf("This is a stablecoin transfer (%s), commonly used for payments or trading settlements.", tx.Token.Symbol)
	}

	if classification != nil && nc.cfg.LiquidityCategories[classification.Category] {
		return "This transaction adds liquidity to a trading pool, enabling market making and earning fees."
	}

	if tx.ValueETH >= nc.cfg.SignificantETH && nc.cfg.SignificantETH > 0 {
		return "This is a significant transfer that may represent portfolio rebalancing or large-scale trading activity."
	}
	if tx.HasTokenData() {
		return fmt.Sprintf("This is a %s token transfer between addresses.", tx.Token.Symbol)
	}
	if tx.ValueETH > 0 && tx.ValueETH < 0.1 {
		return "This is a small ETH transfer, possibly for testing or micro-payments."
	}
	return "This is a standard transfer between addresses."
}

func (nc *NarrativeComposer) buildSections(
	tx *entity.TransactionRecord,
	fraud *entity.FraudAnalysis,
	gas *entity.GasAnalysis,
	classification *entity.Classification,
	insight string,
) []entity.Section {
	valueDisplay := fmt.Sprintf("%.4f ETH", tx.ValueETH)
	if tx.HasTokenData() {
		valueDisplay = nc.printer.Sprintf("%.2f %s", tx.TokenAmount, tx.Token.Symbol)
	}

	category := "Unknown"
	if classification != nil && classification.Category != "" {
		category = classification.Category
	}

	gasContent := "Unavailable"
	if gas != nil && gas.Available {
		gasContent = fmt.Sprintf("$%.2f (%s)", gas.FeeUSD, gas.Efficiency)
	}

	fraudImportance := entity.ImportanceLow
	if fraud != nil && (fraud.RiskLevel == entity.RiskLevelHigh || fraud.RiskLevel == entity.RiskLevelCritical) {
		fraudImportance = entity.ImportanceHigh
	}

	return []entity.Section{
		{Title: "Transaction Overview", Content: valueDisplay, Icon: "💰", Importance: entity.ImportanceHigh},
		{Title: "Classification", Content: category, Icon: "🏷️", Importance: entity.ImportanceMedium},
		{Title: "Gas Analysis", Content: gasContent, Icon: "⛽", Importance: entity.ImportanceMedium},
		{Title: "Fraud Risk", Content: nc.FraudStatement(fraud), Icon: "🛡️", Importance: fraudImportance},
		{Title: "Context Insight", Content: insight, Icon: "💡", Importance: entity.ImportanceLow},
	}
}

// ShortAddress shortens an address for display: 0x1234...abcd
func ShortAddress(address string) string {
	if len(address) < 15 {
		if address == "" {
			return "Unknown"
		}
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
