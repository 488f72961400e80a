package services

// ServiceContainer holds instances of all the application services.
// It is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Balance BalanceSvcFacade
	Auth    OperatorAuthSvc
	Google  GoogleOAuthSvc // nil when Google sign-in is not configured
}
