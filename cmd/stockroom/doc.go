// Command stockroom runs the SKU warehouse dashboard.
//
// Usage:
//
//	stockroom serve                     dashboard on APP_PORT
//	stockroom serve:api [--seed]        inventory API on API_PORT, gRPC health on GRPC_PORT
//	stockroom route:list                named routes of both servers
//
//	stockroom migrate                   run pending migrations
//	stockroom migrate:rollback          roll back the last batch
//	stockroom migrate:status            show migration status
//	stockroom seed                      load the sample inventory
//
//	stockroom schedule:list             background jobs and their schedules
//	stockroom schedule:run <job>        run one job now
//
//	stockroom token --subject ops       sign an API token
//	stockroom export <section> -q SKU   search and write a section as CSV
//	stockroom browse [-q SKU]           terminal dashboard
package main
