package processes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/model"
)

func addMethod(kg *graph.KnowledgeGraph, id, name, file string, exported bool) {
	kg.AddSymbol(&model.Symbol{ID: id, Name: name, Kind: model.KindMethod, File: file, Exported: exported, Language: "csharp"})
}

func addCall(kg *graph.KnowledgeGraph, from, to string, confidence float64) {
	kg.AddCall(model.CallEdge{From: from, To: to, Confidence: confidence, Tier: model.TierA, Reason: "import-resolved"})
}

func scoreOf(scores []scoredEntry, id string) (float64, bool) {
	for _, s := range scores {
		if s.id == id {
			return s.score, true
		}
	}
	return 0, false
}

func TestEntryPointScoringBasic(t *testing.T) {
	kg := graph.New()
	addMethod(kg, "sym:A", "HandleRequest", "api/handler.cs", true)
	addMethod(kg, "sym:B", "Process", "services/worker.cs", true)
	addMethod(kg, "sym:C", "Helper", "utils/helper.cs", false)
	addCall(kg, "sym:A", "sym:B", 0.85)
	addCall(kg, "sym:B", "sym:C", 0.85)

	scores := scoreEntryPoints(kg)
	require.NotEmpty(t, scores)
	assert.Equal(t, "sym:A", scores[0].id)
}

func TestFilesInTestPathExcluded(t *testing.T) {
	kg := graph.New()
	addMethod(kg, "sym:T", "RunTest", "tests/test_main.cs", true)
	addMethod(kg, "sym:R", "Run", "src/main.cs", true)
	addCall(kg, "sym:T", "sym:R", 0.85)
	addCall(kg, "sym:R", "sym:T", 0.5)

	scores := scoreEntryPoints(kg)
	_, found := scoreOf(scores, "sym:T")
	assert.False(t, found)
}

func TestExportMultiplierBoostsScore(t *testing.T) {
	kg := graph.New()
	addMethod(kg, "sym:Pub", "Run", "src/main.cs", true)
	addMethod(kg, "sym:Priv", "RunPrivate", "src/main.cs", false)
	addMethod(kg, "sym:C", "Target", "src/target.cs", true)
	addCall(kg, "sym:Pub", "sym:C", 0.85)
	addCall(kg, "sym:Priv", "sym:C", 0.85)

	scores := scoreEntryPoints(kg)
	pub, _ := scoreOf(scores, "sym:Pub")
	priv, _ := scoreOf(scores, "sym:Priv")
	assert.Greater(t, pub, priv)
}

func TestNamePatternMultiplierBoostsScore(t *testing.T) {
	kg := graph.New()
	addMethod(kg, "sym:Handler", "RequestHandler", "src/api.cs", true)
	addMethod(kg, "sym:Worker", "DoWork", "src/worker.cs", true)
	addMethod(kg, "sym:C", "Target", "src/target.cs", true)
	addCall(kg, "sym:Handler", "sym:C", 0.85)
	addCall(kg, "sym:Worker", "sym:C", 0.85)

	scores := scoreEntryPoints(kg)
	handler, _ := scoreOf(scores, "sym:Handler")
	worker, _ := scoreOf(scores, "sym:Worker")
	assert.Greater(t, handler, worker)
}

func TestUtilityPenaltyLowersScore(t *testing.T) {
	kg := graph.New()
	addMethod(kg, "sym:U", "FormatDate", "utils/formatter.cs", true)
	addMethod(kg, "sym:S", "Process", "services/worker.cs", true)
	addMethod(kg, "sym:C", "Target", "src/target.cs", true)
	addCall(kg, "sym:U", "sym:C", 0.85)
	addCall(kg, "sym:S", "sym:C", 0.85)

	scores := scoreEntryPoints(kg)
	util, _ := scoreOf(scores, "sym:U")
	service, _ := scoreOf(scores, "sym:S")
	assert.Greater(t, service, util)
}

func TestDepthBonusRewardsDeeperChains(t *testing.T) {
	kg := graph.New()
	addMethod(kg, "sym:Deep", "DeepCaller", "src/api.cs", true)
	addMethod(kg, "sym:B", "MidCall", "src/mid.cs", true)
	addMethod(kg, "sym:C", "LeafCall", "src/leaf.cs", true)
	addMethod(kg, "sym:Shallow", "ShallowCaller", "src/shallow.cs", true)
	addMethod(kg, "sym:D", "LeafOnly", "src/leaf2.cs", true)
	addCall(kg, "sym:Deep", "sym:B", 0.85)
	addCall(kg, "sym:B", "sym:C", 0.85)
	addCall(kg, "sym:Shallow", "sym:D", 0.85)

	scores := scoreEntryPoints(kg)
	deep, _ := scoreOf(scores, "sym:Deep")
	shallow, _ := scoreOf(scores, "sym:Shallow")
	assert.Greater(t, deep, shallow)
}

func TestFrameworkMultiplierBoostsScore(t *testing.T) {
	kg := graph.New()
	kg.AddSymbol(&model.Symbol{ID: "sym:F", Name: "Get", Kind: model.KindMethod, File: "api/ctrl.cs", Exported: true, Frameworks: []model.FrameworkTag{model.FrameworkHTTPGet}})
	addMethod(kg, "sym:N", "Get2", "api/other.cs", true)
	addMethod(kg, "sym:C", "Target", "src/target.cs", true)
	addCall(kg, "sym:F", "sym:C", 0.85)
	addCall(kg, "sym:N", "sym:C", 0.85)

	scores := scoreEntryPoints(kg)
	withFramework, _ := scoreOf(scores, "sym:F")
	without, _ := scoreOf(scores, "sym:N")
	assert.Greater(t, withFramework, without)
}

func TestZeroOutDegreeExcluded(t *testing.T) {
	kg := graph.New()
	addMethod(kg, "sym:A", "NoCalls", "src/main.cs", true)
	scores := scoreEntryPoints(kg)
	assert.Empty(t, scores)
}

func TestScoresSortedDescending(t *testing.T) {
	kg := graph.New()
	addMethod(kg, "sym:A", "Handler", "src/api.cs", true)
	addMethod(kg, "sym:B", "Worker", "src/worker.cs", true)
	addMethod(kg, "sym:C", "Target", "src/target.cs", true)
	addCall(kg, "sym:A", "sym:C", 0.85)
	addCall(kg, "sym:B", "sym:C", 0.85)

	scores := scoreEntryPoints(kg)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].score, scores[i].score)
	}
}

func TestDedupContiguousRemovesSubsumedPath(t *testing.T) {
	short := candidate{steps: []string{"b", "c"}, confidence: 0.7}
	long := candidate{steps: []string{"a", "b", "c", "d"}, confidence: 0.6}
	kept := dedupContiguous([]candidate{short, long})
	require.Len(t, kept, 1)
	assert.Equal(t, long.steps, kept[0].steps)
}

func TestDedupContiguousKeepsNonContiguousOverlap(t *testing.T) {
	a := candidate{steps: []string{"x", "y"}, confidence: 0.7}
	b := candidate{steps: []string{"y", "x", "z"}, confidence: 0.6}
	kept := dedupContiguous([]candidate{a, b})
	assert.Len(t, kept, 2)
}

func TestClassifyIntraCommunity(t *testing.T) {
	membership := map[string]string{"s1": "community_0", "s2": "community_0"}
	assert.Equal(t, model.ClassIntraCommunity, classify([]string{"s1", "s2"}, membership))
}

func TestClassifyCrossCommunityOnDifferentCommunities(t *testing.T) {
	membership := map[string]string{"s1": "community_0", "s2": "community_1"}
	assert.Equal(t, model.ClassCrossCommunity, classify([]string{"s1", "s2"}, membership))
}

func TestClassifyCrossCommunityOnUnmappedStep(t *testing.T) {
	membership := map[string]string{"s1": "community_0"}
	assert.Equal(t, model.ClassCrossCommunity, classify([]string{"s1", "s2"}, membership))
}

func TestRunTracesSimpleChain(t *testing.T) {
	kg := graph.New()
	addMethod(kg, "sym:Controller", "UserController", "api/user_controller.cs", true)
	addMethod(kg, "sym:Service", "CreateUser", "services/user_service.cs", true)
	addMethod(kg, "sym:Repo", "Save", "repos/user_repo.cs", true)
	addCall(kg, "sym:Controller", "sym:Service", 0.9)
	addCall(kg, "sym:Service", "sym:Repo", 0.9)

	cfg := config.Default(t.TempDir())
	Run(cfg, kg)

	processes := kg.Processes()
	require.NotEmpty(t, processes)

	found := false
	for _, p := range processes {
		if len(p.Steps) == 3 && p.Steps[0] == "sym:Controller" {
			found = true
			assert.Equal(t, "sym:Repo", p.Terminal)
		}
	}
	assert.True(t, found)
}

func TestRunCapsAtMaxProcesses(t *testing.T) {
	kg := graph.New()
	for i := 0; i < 5; i++ {
		id := "sym:E" + string(rune('0'+i))
		addMethod(kg, id, "Handler"+string(rune('0'+i)), "api/h.cs", true)
		target := "sym:T" + string(rune('0'+i))
		addMethod(kg, target, "Target", "src/t.cs", true)
		addCall(kg, id, target, 0.9)
	}

	cfg := config.Default(t.TempDir())
	cfg.MaxProcesses = 2
	cfg.MinSteps = 2
	Run(cfg, kg)

	assert.LessOrEqual(t, len(kg.Processes()), 2)
}
