package handlers

import "parking-api/services"

// 各 handler 共用的 service 實例，由 main 在啟動時注入
var (
	userService    *services.UserService
	clientService  *services.ClientService
	vacancyService *services.VacancyService
	parkingService *services.ParkingService
)

// Init 注入 service 實例，必須在註冊路由前呼叫
func Init(
	users *services.UserService,
	clients *services.ClientService,
	vacancies *services.VacancyService,
	parking *services.ParkingService,
) {
	userService = users
	clientService = clients
	vacancyService = vacancies
	parkingService = parking
}
