package media

// Episode 一个待迁移的分集文件
// 由规划器创建，创建后不再修改
type Episode struct {
	SourcePath   string `json:"source_path"`
	ShowName     string `json:"show_name"`
	Season       int    `json:"season"`                  // 0 表示 Specials
	Number       int    `json:"number"`                  // 起始集号，从1开始
	EndNumber    *int   `json:"end_number,omitempty"`    // 多集文件的结束集号，恒大于Number
	Extension    string `json:"extension"`               // 含前导点
	CatalogTitle string `json:"catalog_title,omitempty"` // 目录服务提供的分集标题
}

// IsMultiEpisode 是否为跨集文件
func (e *Episode) IsMultiEpisode() bool {
	return e.EndNumber != nil
}

// Season 同一季的分集序列
type Season struct {
	ShowName       string     `json:"show_name"`
	Number         int        `json:"number"`
	Episodes       []*Episode `json:"episodes"`
	OriginalFolder string     `json:"original_folder"`
}

// FolderType 节目文件夹的结构类型
type FolderType string

const (
	// FolderTypeDirectFiles 媒体文件直接位于节目文件夹下
	FolderTypeDirectFiles FolderType = "direct_files"
	// FolderTypeSeasonSubfolders 节目文件夹下按季分子目录
	FolderTypeSeasonSubfolders FolderType = "season_subfolders"
)

// TVShow 一个待整理的节目
type TVShow struct {
	Name           string           `json:"name"`
	FolderType     FolderType       `json:"folder_type"`
	OriginalFolder string           `json:"original_folder"`
	Seasons        []*Season        `json:"seasons"`
	Metadata       *CatalogMetadata `json:"metadata,omitempty"`
	Category       string           `json:"category,omitempty"`
}
