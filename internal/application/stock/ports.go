package stock

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios
// atados a esa transacción. Es el límite de atomicidad del núcleo: escritura al
// libro, actualización de la proyección y estado de alertas comparten un único
// commit — o entran todos, o no entra ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
		alertRepo repository.StockAlertRepository,
	) error) error
}
