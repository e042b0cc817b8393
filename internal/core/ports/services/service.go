package services

// ServiceContainer holds instances of all the application services. It is the
// entry point for accessing service functionality from the handlers.
type ServiceContainer struct {
	User        UserSvcFacade
	Token       TokenSvcFacade
	GoogleOAuth GoogleOAuthSvcFacade
	Uploader    Uploader
	Publisher   Publisher
}
