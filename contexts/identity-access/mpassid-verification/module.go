package mpassid

import (
	"log/slog"
	"time"

	httpadapter "agora/contexts/identity-access/mpassid-verification/adapters/http"
	"agora/contexts/identity-access/mpassid-verification/adapters/memory"
	"agora/contexts/identity-access/mpassid-verification/adapters/samlattr"
	"agora/contexts/identity-access/mpassid-verification/application/commands"
	"agora/contexts/identity-access/mpassid-verification/application/queries"
	"agora/contexts/identity-access/mpassid-verification/domain/authzrule"
	"agora/contexts/identity-access/mpassid-verification/domain/schools"
	"agora/contexts/identity-access/mpassid-verification/ports"
)

// Module is the mpassid-verification composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository          ports.Repository
	Clock               ports.Clock
	IDGenerator         ports.IDGenerator
	Schools             schools.Directory
	RuleOrder           []string
	AuthorizationExpiry time.Duration
	SecretKeyBase       string
	AutoEmailDomain     string
	Logger              *slog.Logger
}

// NewModule wires the verification use-cases and transport handler using
// explicit ports. The rule chain is resolved here, once, so an unknown rule
// name fails startup instead of a request.
func NewModule(deps Dependencies) (Module, error) {
	order := deps.RuleOrder
	if len(order) == 0 {
		order = authzrule.DefaultRuleOrder()
	}
	rules, err := authzrule.Build(order, authzrule.Config{Schools: deps.Schools})
	if err != nil {
		return Module{}, err
	}

	grant := commands.GrantAuthorizationUseCase{
		Repository:      deps.Repository,
		Clock:           deps.Clock,
		IDGenerator:     deps.IDGenerator,
		SecretKeyBase:   deps.SecretKeyBase,
		AutoEmailDomain: deps.AutoEmailDomain,
		Logger:          deps.Logger,
	}
	authorize := queries.AuthorizeActionUseCase{
		Repository: deps.Repository,
		Authorizer: authzrule.NewAuthorizer(rules),
		Clock:      deps.Clock,
		Expiry:     deps.AuthorizationExpiry,
		Logger:     deps.Logger,
	}
	get := queries.GetAuthorizationUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	handler := httpadapter.Handler{
		Grant:     grant,
		Authorize: authorize,
		Get:       get,
		Decoder:   samlattr.Decoder{AttributeMap: samlattr.DefaultAttributeMap()},
		Logger:    deps.Logger,
	}

	return Module{
		Handler: handler,
	}, nil
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters and a small fixed school directory.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module, err := NewModule(Dependencies{
		Repository:          store,
		Clock:               store,
		IDGenerator:         store,
		Schools:             devSchoolDirectory(),
		RuleOrder:           authzrule.DefaultRuleOrder(),
		AuthorizationExpiry: 0,
		SecretKeyBase:       "dev-secret-key-base",
		AutoEmailDomain:     "example.org",
		Logger:              logger,
	})
	if err != nil {
		// Default rule order only references registered rules.
		panic(err)
	}
	module.Store = store
	return module
}

func devSchoolDirectory() schools.Directory {
	return schools.NewStaticDirectory([]schools.School{
		{Code: "00000", Name: "Keskustan ala-aste", Type: schools.TypeElementary},
		{Code: "00001", Name: "Pohjoisen yhteiskoulu", Type: schools.TypeElementaryAndHigh},
		{Code: "00002", Name: "Rannan lukio", Type: 15},
	})
}
