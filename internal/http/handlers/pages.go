package handlers

import "net/http"

// appShell — HTML-оболочка одностраничного приложения. Содержимое
// страниц (таблицы, рейтинги, матчи) рендерит фронт; шлюз отвечает
// только за доставку оболочки и за доступ к защищённым маршрутам.
const appShell = `<!doctype html>
<html lang="ru">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>FootStats</title>
  <link rel="stylesheet" href="/assets/app.css">
</head>
<body>
  <div id="root"></div>
  <script src="/assets/app.js"></script>
</body>
</html>
`

// Page отдаёт оболочку приложения. Для защищённых маршрутов до этого
// хендлера стоит middleware.RequireAuth.
func (h *Handlers) Page(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(appShell))
}
