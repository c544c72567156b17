/*
@Author: Lzww
@LastEditTime: 2025-9-18 20:40:12
@Description: Ring Buffer
@Language: Go 1.23.4
*/

package recvbench

import (
	"testing"
)

func TestRingBuffer_BasicOperations(t *testing.T) {
	rb := NewRingBuffer[int](4)

	// 测试空缓冲区
	if !rb.Empty() {
		t.Error("新创建的环形缓冲区应该为空")
	}

	if rb.Len() != 0 {
		t.Errorf("空缓冲区长度应该为0，实际为%d", rb.Len())
	}

	// 测试Push操作
	rb.Push(1)
	rb.Push(2)
	rb.Push(3)

	if rb.Len() != 3 {
		t.Errorf("缓冲区长度应该为3，实际为%d", rb.Len())
	}

	// 测试Pop操作
	val, ok := rb.Pop()
	if !ok || val != 1 {
		t.Errorf("Pop应该返回1，实际返回%d", val)
	}

	// 测试Peek操作
	peekVal, ok := rb.Peek()
	if !ok || *peekVal != 2 {
		t.Errorf("Peek应该返回2，实际返回%v", peekVal)
	}

	if rb.Len() != 2 {
		t.Errorf("Peek后缓冲区长度应该保持为2，实际为%d", rb.Len())
	}
}

func TestRingBuffer_FullAndEvict(t *testing.T) {
	rb := NewRingBuffer[int](2)

	if rb.MaxLen() != 2 {
		t.Errorf("最大长度应该为2，实际为%d", rb.MaxLen())
	}

	if rb.Push(1) || rb.Push(2) {
		t.Error("未满时Push不应该淘汰元素")
	}

	if !rb.Full() {
		t.Error("缓冲区应该已满")
	}

	// 满时Push应该淘汰最旧的元素
	if !rb.Push(3) {
		t.Error("满时Push应该淘汰元素")
	}

	if rb.Len() != 2 {
		t.Errorf("淘汰后长度应该为2，实际为%d", rb.Len())
	}

	var result []int
	rb.ForEach(func(v *int) bool {
		result = append(result, *v)
		return true
	})
	if len(result) != 2 || result[0] != 2 || result[1] != 3 {
		t.Errorf("应该保留[2 3]，实际为%v", result)
	}
}

func TestRingBuffer_MinimumCapacity(t *testing.T) {
	rb := NewRingBuffer[int](0)
	if rb.MaxLen() != 1 {
		t.Errorf("最小容量应该为1，实际为%d", rb.MaxLen())
	}
}

func TestRingBuffer_EmptyOperations(t *testing.T) {
	rb := NewRingBuffer[int](4)

	val, ok := rb.Pop()
	if ok {
		t.Error("空缓冲区Pop应该返回false")
	}
	if val != 0 {
		t.Errorf("空缓冲区Pop应该返回零值，实际返回%d", val)
	}

	peekVal, ok := rb.Peek()
	if ok || peekVal != nil {
		t.Error("空缓冲区Peek应该返回nil和false")
	}

	called := false
	rb.ForEach(func(*int) bool {
		called = true
		return true
	})
	if called {
		t.Error("空缓冲区ForEach不应该调用回调")
	}
}

func TestRingBuffer_ForEachEarlyStop(t *testing.T) {
	rb := NewRingBuffer[int](10)
	for i := 1; i <= 5; i++ {
		rb.Push(i)
	}

	var result []int
	rb.ForEach(func(val *int) bool {
		result = append(result, *val)
		return *val < 3
	})

	if len(result) != 3 {
		t.Errorf("提前停止后应该遍历3个元素，实际为%d", len(result))
	}
}

func TestRingBuffer_Wraparound(t *testing.T) {
	rb := NewRingBuffer[int](4)

	// 推入足够多的元素使head和tail多次回绕
	for i := 1; i <= 11; i++ {
		rb.Push(i)
	}

	expected := []int{8, 9, 10, 11}
	var result []int
	rb.ForEach(func(val *int) bool {
		result = append(result, *val)
		return true
	})

	if len(result) != len(expected) {
		t.Fatalf("回绕后应该有%d个元素，实际为%d", len(expected), len(result))
	}
	for i, v := range expected {
		if result[i] != v {
			t.Errorf("位置%d应该为%d，实际为%d", i, v, result[i])
		}
	}
}

func TestRingBuffer_StructType(t *testing.T) {
	rb := NewRingBuffer[RoundSample](2)
	rb.Push(RoundSample{Index: 0, Received: 4})
	rb.Push(RoundSample{Index: 1, Received: 3})

	head, ok := rb.Peek()
	if !ok || head.Index != 0 || head.Received != 4 {
		t.Errorf("Peek应该返回第0轮，实际为%+v", head)
	}
}
