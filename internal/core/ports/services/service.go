package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Wallets        WalletRegistrySvc
	Budget         BudgetManagerSvc
	Payroll        PayrollApprovalSvcFacade
	SalesMarketing SalesMarketingApprovalSvcFacade
	Reporting      ReportingSvc
}
