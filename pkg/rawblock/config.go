package rawblock

// Config describes the fixed geometry of a RawAccessContainer at creation
// time. MaxBlocks bounds the bit vectors held in memory; MaxFreeListSectors
// bounds the on-device free-list stack's page count. Both are permanent
// for the lifetime of the device image — there is no online resize.
type Config struct {
	MaxBlocks          uint32 `mapstructure:"max_blocks" validate:"required,gt=0"`
	MaxFreeListSectors uint32 `mapstructure:"max_free_list_sectors" validate:"gte=0"`
}
